// internal/rules/builder.go
package rules

import (
	"fmt"

	"github.com/solatis/formlogic/internal/types"
)

/*
 * Copy-on-write rule tree edits.
 *
 * Builder operations take a field and return an edited copy; the input field
 * and its tree are never modified, so a form snapshot held by a renderer
 * cannot observe a half-applied edit.
 *
 * Nodes are addressed by NodePath: indexes from the root group's rules down
 * through nested groups. The empty path addresses the root group.
 *
 * Build-time constraints enforced here (the evaluator tolerates violations):
 *   - Nested groups stop at MaxGroupDepth (root = 0)
 *   - A condition may not reference its own field
 *   - Choosing is_empty/is_not_empty clears the condition's value
 *   - Removing the last node of a group removes the group; removing the last
 *     root node clears the field's logic, keeping the no-empty-root invariant
 */

// NodePath addresses a rule node by index from the root group.
type NodePath []int

// EnableLogic seeds a default rule on a field without logic.
// A field that already has logic is returned unchanged.
func EnableLogic(f types.Field) types.Field {
	out := f.Clone()
	if out.Logic == nil {
		out.Logic = types.NewLogicRule()
	}
	return out
}

// DisableLogic clears the field's rule.
func DisableLogic(f types.Field) types.Field {
	out := f.Clone()
	out.Logic = nil
	return out
}

// SetAction changes what the rule does when its group holds.
func SetAction(f types.Field, action types.Action) (types.Field, error) {
	switch action {
	case types.ActionShow, types.ActionHide, types.ActionRequire:
	default:
		return f, fmt.Errorf("%w: %q", types.ErrUnknownAction, action)
	}
	out, err := editable(f)
	if err != nil {
		return f, err
	}
	out.Logic.Action = action
	return out, nil
}

// SetGroupOperator switches the group at path between AND and OR.
func SetGroupOperator(f types.Field, path NodePath, op types.GroupOperator) (types.Field, error) {
	if op != types.GroupAnd && op != types.GroupOr {
		return f, fmt.Errorf("%w: group operator %q", types.ErrUnknownOperator, op)
	}
	out, err := editable(f)
	if err != nil {
		return f, err
	}
	g, err := groupAt(&out.Logic.ConditionGroup, path)
	if err != nil {
		return f, err
	}
	g.Operator = op
	return out, nil
}

// AddCondition appends a blank equals condition to the group at path.
func AddCondition(f types.Field, path NodePath) (types.Field, error) {
	out, err := editable(f)
	if err != nil {
		return f, err
	}
	g, err := groupAt(&out.Logic.ConditionGroup, path)
	if err != nil {
		return f, err
	}
	g.Rules = append(g.Rules, types.ConditionNode(types.Condition{Operator: types.OpEquals}))
	return out, nil
}

// AddGroup appends a nested AND group, seeded with one blank condition, to
// the group at path. Fails with ErrGroupTooDeep past MaxGroupDepth.
func AddGroup(f types.Field, path NodePath) (types.Field, error) {
	if len(path)+1 > types.MaxGroupDepth {
		return f, fmt.Errorf("%w: depth %d > %d", types.ErrGroupTooDeep, len(path)+1, types.MaxGroupDepth)
	}
	out, err := editable(f)
	if err != nil {
		return f, err
	}
	g, err := groupAt(&out.Logic.ConditionGroup, path)
	if err != nil {
		return f, err
	}
	g.Rules = append(g.Rules, types.GroupNode(types.ConditionGroup{
		Operator: types.GroupAnd,
		Rules:    []types.RuleNode{types.ConditionNode(types.Condition{Operator: types.OpEquals})},
	}))
	return out, nil
}

// UpdateCondition replaces the condition at path.
func UpdateCondition(f types.Field, path NodePath, cond types.Condition) (types.Field, error) {
	if cond.FieldID != "" && cond.FieldID == f.ID {
		return f, fmt.Errorf("%w: %s", types.ErrSelfReference, f.ID)
	}
	if !cond.Operator.Known() {
		return f, fmt.Errorf("%w: %q", types.ErrUnknownOperator, cond.Operator)
	}
	if !cond.Operator.NeedsValue() {
		cond.Value = ""
	}
	if len(path) == 0 {
		return f, fmt.Errorf("%w: empty path addresses the root group", types.ErrNotACondition)
	}

	out, err := editable(f)
	if err != nil {
		return f, err
	}
	parent, err := groupAt(&out.Logic.ConditionGroup, path[:len(path)-1])
	if err != nil {
		return f, err
	}
	idx := path[len(path)-1]
	if idx < 0 || idx >= len(parent.Rules) {
		return f, fmt.Errorf("%w: %v", types.ErrInvalidPath, path)
	}
	if parent.Rules[idx].Condition == nil {
		return f, fmt.Errorf("%w: %v", types.ErrNotACondition, path)
	}
	parent.Rules[idx] = types.ConditionNode(cond)
	return out, nil
}

// RemoveNode deletes the node at path, collapsing groups it leaves empty.
func RemoveNode(f types.Field, path NodePath) (types.Field, error) {
	if len(path) == 0 {
		return f, fmt.Errorf("%w: cannot remove the root group (use DisableLogic)", types.ErrInvalidPath)
	}
	out, err := editable(f)
	if err != nil {
		return f, err
	}
	if err := removeAt(&out.Logic.ConditionGroup, path); err != nil {
		return f, err
	}
	if len(out.Logic.ConditionGroup.Rules) == 0 {
		out.Logic = nil
	}
	return out, nil
}

// editable returns a deep copy of a field that has logic.
func editable(f types.Field) (types.Field, error) {
	if f.Logic == nil {
		return f, fmt.Errorf("%w: %s", types.ErrNoLogic, f.ID)
	}
	return f.Clone(), nil
}

// groupAt walks path from root and returns the addressed group.
func groupAt(root *types.ConditionGroup, path NodePath) (*types.ConditionGroup, error) {
	g := root
	for depth, idx := range path {
		if idx < 0 || idx >= len(g.Rules) {
			return nil, fmt.Errorf("%w: %v", types.ErrInvalidPath, path[:depth+1])
		}
		next := g.Rules[idx].Group
		if next == nil {
			return nil, fmt.Errorf("%w: %v", types.ErrNotAGroup, path[:depth+1])
		}
		g = next
	}
	return g, nil
}

// removeAt deletes the node at path and drops nested groups left empty.
func removeAt(g *types.ConditionGroup, path NodePath) error {
	idx := path[0]
	if idx < 0 || idx >= len(g.Rules) {
		return fmt.Errorf("%w: index %d", types.ErrInvalidPath, idx)
	}
	if len(path) > 1 {
		child := g.Rules[idx].Group
		if child == nil {
			return fmt.Errorf("%w: index %d", types.ErrNotAGroup, idx)
		}
		if err := removeAt(child, path[1:]); err != nil {
			return err
		}
		if len(child.Rules) > 0 {
			return nil
		}
	}
	g.Rules = append(g.Rules[:idx:idx], g.Rules[idx+1:]...)
	return nil
}
