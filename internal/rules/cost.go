// internal/rules/cost.go
package rules

import "github.com/solatis/formlogic/internal/types"

/*
 * Cost model for rule node ordering.
 *
 * Defines relative evaluation costs used by Compile to order siblings so
 * AND/OR groups short-circuit on cheap nodes first.
 *
 * Cost formula:
 *   condition = 0 if the target is unresolved or the operator is unknown
 *               (constant false), else the operator cost
 *   group     = CostGroupOverhead + sum(children)
 *
 * Why constant-false first: an unresolved condition in an AND group decides
 * the group immediately, and in an OR group costs nothing to skip.
 *
 * contains is the most expensive leaf because it lower-cases both sides.
 */

const (
	// Leaf operator costs
	CostConstant = 0
	CostIsEmpty  = 1
	CostEquals   = 5
	CostNumeric  = 7
	CostContains = 10

	// Fixed cost of entering a nested group
	CostGroupOverhead = 16
)

// CalculateConditionCost computes the ordering cost of a single condition.
func CalculateConditionCost(op types.Operator, resolved bool) int {
	if !resolved {
		return CostConstant
	}
	switch op {
	case types.OpIsEmpty, types.OpIsNotEmpty:
		return CostIsEmpty
	case types.OpEquals, types.OpNotEquals:
		return CostEquals
	case types.OpGreaterThan, types.OpLessThan:
		return CostNumeric
	case types.OpContains:
		return CostContains
	default:
		return CostConstant
	}
}
