// internal/rules/coercion.go
package rules

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/solatis/formlogic/internal/types"
)

/*
 * Value coercion for condition evaluation.
 *
 * Conditions compare a tagged form value against a literal string typed into
 * the builder. The renderer compares textually, so coercion reproduces its
 * rules rather than Go's native equality or ordering:
 *
 *   - Stringify: absent/null -> "", strings as-is, numbers in shortest
 *     round-trip form (exponent form outside [1e-6, 1e21)), booleans as
 *     "true"/"false", tables as one "[object Object]" per row joined by ",".
 *   - ToNumber: absent -> NaN, null -> 0, booleans -> 0/1, strings parsed
 *     after trimming (empty -> 0, decimal/exponent/Infinity and 0x/0o/0b
 *     integer literals, anything else NaN), tables via their string form.
 *
 * Key distinction: absent and null are both "empty" for is_empty, but only
 * null coerces to 0. A condition "less_than 5" on a field the user never
 * touched is therefore false, not true.
 *
 * NaN never compares true, which makes greater_than/less_than fail closed on
 * non-numeric input without any error path.
 */

// objectRowText is the textual form of one table row.
const objectRowText = "[object Object]"

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)$`)
	radixLiteral   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// Stringify converts a value to the text the renderer compares against.
func Stringify(v types.Value) string {
	switch v.Kind() {
	case types.KindString:
		s, _ := v.Str()
		return s
	case types.KindNumber:
		f, _ := v.Num()
		return FormatNumber(f)
	case types.KindBool:
		if b, _ := v.Boolean(); b {
			return "true"
		}
		return "false"
	case types.KindRows:
		rows, _ := v.RowList()
		parts := make([]string, len(rows))
		for i := range rows {
			parts[i] = objectRowText
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// ToNumber converts a value to float64 for ordering comparisons.
// Returns NaN when the value has no numeric reading.
func ToNumber(v types.Value) float64 {
	switch v.Kind() {
	case types.KindAbsent:
		return math.NaN()
	case types.KindNull:
		return 0
	case types.KindNumber:
		f, _ := v.Num()
		return f
	case types.KindBool:
		if b, _ := v.Boolean(); b {
			return 1
		}
		return 0
	default:
		return ParseNumber(Stringify(v))
	}
}

// ParseNumber parses builder literals and text input numerically.
// Whitespace-only input is 0; malformed input is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if decimalLiteral.MatchString(s) {
		// ParseFloat accepts the "Infinity" spelling directly
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Out of range literals saturate to ±Inf with ErrRange
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				return f
			}
			return math.NaN()
		}
		return f
	}

	if radixLiteral.MatchString(s) {
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}

	return math.NaN()
}

// FormatNumber renders f in shortest round-trip form with exponent notation
// outside [1e-6, 1e21).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		// Covers negative zero
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads the exponent to two digits ("1e-07"); the renderer does not
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsEmpty reports whether a value counts as empty for is_empty:
// absent, null, or stringifying to "".
func IsEmpty(v types.Value) bool {
	if v.IsNullish() {
		return true
	}
	return Stringify(v) == ""
}
