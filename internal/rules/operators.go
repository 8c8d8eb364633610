// internal/rules/operators.go
package rules

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/solatis/formlogic/internal/types"
)

/*
 * Operator comparison logic.
 *
 * Implements the seven leaf operators of the condition builder. The left side
 * is the live form value (tagged), the right side is the literal the builder
 * stored as a string. Coercion rules live in coercion.go.
 *
 * Operators:
 *   - equals/not_equals: stringify-then-compare, exact and case-sensitive
 *   - greater_than/less_than: numeric, NaN on either side is false
 *   - contains: case-insensitive substring of the literal in the value text
 *   - is_empty/is_not_empty: absent, null, or "" text; literal ignored
 *
 * Complement pairs (equals/not_equals, is_empty/is_not_empty) are defined as
 * negations of one function so they can never disagree.
 *
 * Unknown operators compare false: an unreadable condition never grants
 * visibility or requirement.
 */

// Compare applies op to the form value and the builder literal.
func Compare(op types.Operator, actual types.Value, literal string) bool {
	switch op {
	case types.OpEquals:
		return compareEqual(actual, literal)
	case types.OpNotEquals:
		return !compareEqual(actual, literal)
	case types.OpGreaterThan:
		a, b := ToNumber(actual), ParseNumber(literal)
		return !math.IsNaN(a) && !math.IsNaN(b) && a > b
	case types.OpLessThan:
		a, b := ToNumber(actual), ParseNumber(literal)
		return !math.IsNaN(a) && !math.IsNaN(b) && a < b
	case types.OpContains:
		return compareContains(actual, literal)
	case types.OpIsEmpty:
		return IsEmpty(actual)
	case types.OpIsNotEmpty:
		return !IsEmpty(actual)
	default:
		return false
	}
}

// compareEqual compares the value's text against the literal exactly.
func compareEqual(actual types.Value, literal string) bool {
	return Stringify(actual) == literal
}

// compareContains performs a case-insensitive substring test.
// Unicode-aware lower-casing (final sigma, etc.) via x/text; a Caser is not
// safe for concurrent use, so one is built per call.
func compareContains(actual types.Value, literal string) bool {
	lower := cases.Lower(language.Und)
	return strings.Contains(lower.String(Stringify(actual)), lower.String(literal))
}
