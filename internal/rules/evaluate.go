// internal/rules/evaluate.go
package rules

import (
	"github.com/solatis/formlogic/internal/types"
)

/*
 * Condition and group evaluation.
 *
 * Evaluates a condition group tree against a value map with AND/OR semantics.
 * Pure and total: no errors, no panics, no mutation of inputs.
 *
 * Evaluation flow:
 *   1. Group: nil group or empty rules -> true (for AND and OR alike)
 *   2. Each node: condition -> evaluateCondition, group -> recurse
 *   3. AND short-circuits on first false, OR on first true
 *   4. Condition: resolve field_id -> read values[field.name] -> Compare
 *
 * Failure defaults:
 *   - Unresolved field_id: false (a dangling reference never grants anything)
 *   - Empty or missing rules: true ("no restriction configured")
 *   - Malformed node (neither condition nor group): treated as an empty group
 *   - Unknown group operator: any-of, as the renderer does for non-AND
 *
 * The empty-OR-is-true rule deliberately departs from the usual identity
 * element; builders always seed a group with one condition, so it only
 * matters for malformed input, which must still get a defined answer.
 *
 * Depth is unbounded here. MaxGroupDepth is a build-time limit only.
 */

// fieldLookup resolves a field id; first match wins on duplicate ids.
type fieldLookup func(id string) (*types.Field, bool)

// sliceLookup scans fields linearly. Used by the single-call entry points;
// Compile builds a map-backed index for whole-form evaluation.
func sliceLookup(fields []types.Field) fieldLookup {
	return func(id string) (*types.Field, bool) {
		for i := range fields {
			if fields[i].ID == id {
				return &fields[i], true
			}
		}
		return nil, false
	}
}

// EvaluateCondition evaluates one leaf comparison against current values.
func EvaluateCondition(cond types.Condition, values types.ValueMap, fields []types.Field) bool {
	return evaluateCondition(cond, values, sliceLookup(fields))
}

// EvaluateGroup recursively evaluates a condition group.
// A nil group or a group without rules evaluates true.
func EvaluateGroup(group *types.ConditionGroup, values types.ValueMap, fields []types.Field) bool {
	return evaluateGroup(group, values, sliceLookup(fields))
}

func evaluateCondition(cond types.Condition, values types.ValueMap, lookup fieldLookup) bool {
	target, ok := lookup(cond.FieldID)
	if !ok {
		return false
	}
	return Compare(cond.Operator, values.Get(target.Name), cond.Value)
}

func evaluateGroup(group *types.ConditionGroup, values types.ValueMap, lookup fieldLookup) bool {
	if group == nil || len(group.Rules) == 0 {
		return true
	}

	all := group.Operator == types.GroupAnd
	for _, node := range group.Rules {
		matched := evaluateNode(node, values, lookup)
		if all && !matched {
			return false
		}
		if !all && matched {
			return true
		}
	}
	return all
}

func evaluateNode(node types.RuleNode, values types.ValueMap, lookup fieldLookup) bool {
	if node.Condition != nil {
		return evaluateCondition(*node.Condition, values, lookup)
	}
	// Group or malformed node; evaluateGroup treats nil as empty
	return evaluateGroup(node.Group, values, lookup)
}

// NodeResult is the diagnostic outcome of one rule node.
// Conditions carry the text compared; groups carry their children.
type NodeResult struct {
	Condition  *types.Condition    `json:"condition,omitempty"`
	Operator   types.GroupOperator `json:"operator,omitempty"`
	Matched    bool                `json:"matched"`
	Unresolved bool                `json:"unresolved,omitempty"`
	Actual     string              `json:"actual,omitempty"`
	Children   []NodeResult        `json:"children,omitempty"`
}

// Explain evaluates a group without short-circuiting and reports every node.
// The root Matched always equals EvaluateGroup for the same inputs.
func Explain(group *types.ConditionGroup, values types.ValueMap, fields []types.Field) NodeResult {
	return explainGroup(group, values, sliceLookup(fields))
}

func explainGroup(group *types.ConditionGroup, values types.ValueMap, lookup fieldLookup) NodeResult {
	if group == nil || len(group.Rules) == 0 {
		res := NodeResult{Matched: true}
		if group != nil {
			res.Operator = group.Operator
		}
		return res
	}

	all := group.Operator == types.GroupAnd
	res := NodeResult{
		Operator: group.Operator,
		Matched:  all,
		Children: make([]NodeResult, 0, len(group.Rules)),
	}
	for _, node := range group.Rules {
		var child NodeResult
		if node.Condition != nil {
			child = explainCondition(*node.Condition, values, lookup)
		} else {
			child = explainGroup(node.Group, values, lookup)
		}
		if all {
			res.Matched = res.Matched && child.Matched
		} else {
			res.Matched = res.Matched || child.Matched
		}
		res.Children = append(res.Children, child)
	}
	return res
}

func explainCondition(cond types.Condition, values types.ValueMap, lookup fieldLookup) NodeResult {
	c := cond
	target, ok := lookup(cond.FieldID)
	if !ok {
		return NodeResult{Condition: &c, Unresolved: true}
	}
	actual := values.Get(target.Name)
	return NodeResult{
		Condition: &c,
		Matched:   Compare(cond.Operator, actual, cond.Value),
		Actual:    Stringify(actual),
	}
}
