package rules

import (
	"fmt"
	"math/rand"

	"github.com/solatis/formlogic/internal/types"
)

// cond builds a condition node.
func cond(fieldID string, op types.Operator, value string) types.RuleNode {
	return types.ConditionNode(types.Condition{FieldID: fieldID, Operator: op, Value: value})
}

// and builds a nested AND group node.
func and(nodes ...types.RuleNode) types.RuleNode {
	return types.GroupNode(types.ConditionGroup{Operator: types.GroupAnd, Rules: nodes})
}

// or builds a nested OR group node.
func or(nodes ...types.RuleNode) types.RuleNode {
	return types.GroupNode(types.ConditionGroup{Operator: types.GroupOr, Rules: nodes})
}

// logic builds a rule whose root group has the given operator.
func logic(action types.Action, op types.GroupOperator, nodes ...types.RuleNode) *types.LogicRule {
	return &types.LogicRule{
		Action:         action,
		ConditionGroup: types.ConditionGroup{Operator: op, Rules: nodes},
	}
}

// field builds a text field whose name equals its id.
func field(id string, l *types.LogicRule) types.Field {
	return types.Field{ID: id, Name: id, Type: types.FieldText, Logic: l}
}

var randomOperators = append(append([]types.Operator(nil), types.Operators...), types.Operator("bogus"))

var randomLiterals = []string{"", "0", "1", "2", "yes", "no", "a", "AB", "x"}

// randomForm builds n fields with random rule trees of bounded depth.
// Conditions may reference missing ids ("ghost") or the field itself.
func randomForm(r *rand.Rand, n int) []types.Field {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("f%d", i)
	}
	pool := append(append([]string(nil), ids...), "ghost", "")

	fields := make([]types.Field, n)
	for i, id := range ids {
		fields[i] = types.Field{ID: id, Name: id, Type: types.FieldText}
		if r.Intn(3) == 0 {
			continue
		}
		actions := []types.Action{types.ActionShow, types.ActionHide, types.ActionRequire}
		fields[i].Logic = &types.LogicRule{
			Action:         actions[r.Intn(len(actions))],
			ConditionGroup: randomGroup(r, pool, 0),
		}
	}
	return fields
}

func randomGroup(r *rand.Rand, pool []string, depth int) types.ConditionGroup {
	g := types.ConditionGroup{Operator: types.GroupAnd}
	if r.Intn(2) == 0 {
		g.Operator = types.GroupOr
	}
	n := r.Intn(4)
	for i := 0; i < n; i++ {
		switch k := r.Intn(10); {
		case k < 6 || depth >= 3:
			g.Rules = append(g.Rules, cond(
				pool[r.Intn(len(pool))],
				randomOperators[r.Intn(len(randomOperators))],
				randomLiterals[r.Intn(len(randomLiterals))],
			))
		case k < 9:
			g.Rules = append(g.Rules, types.GroupNode(randomGroup(r, pool, depth+1)))
		default:
			g.Rules = append(g.Rules, types.RuleNode{})
		}
	}
	return g
}

// randomValues assigns a random value to a random subset of field names.
func randomValues(r *rand.Rand, fields []types.Field) types.ValueMap {
	values := make(types.ValueMap)
	for _, f := range fields {
		switch r.Intn(6) {
		case 0:
			// leave absent
		case 1:
			values[f.Name] = types.Null()
		case 2:
			values[f.Name] = types.Number(float64(r.Intn(5)))
		case 3:
			values[f.Name] = types.Bool(r.Intn(2) == 0)
		default:
			values[f.Name] = types.String(randomLiterals[r.Intn(len(randomLiterals))])
		}
	}
	return values
}

// collectRefs returns every condition field_id in a group, depth-first.
func collectRefs(g *types.ConditionGroup, out []string) []string {
	if g == nil {
		return out
	}
	for _, n := range g.Rules {
		if n.Condition != nil {
			out = append(out, n.Condition.FieldID)
		} else {
			out = collectRefs(n.Group, out)
		}
	}
	return out
}

// hasEmptyGroup reports whether any nested group (or malformed node) is empty.
func hasEmptyGroup(g *types.ConditionGroup) bool {
	for _, n := range g.Rules {
		if n.Condition != nil {
			continue
		}
		if n.Group == nil || len(n.Group.Rules) == 0 || hasEmptyGroup(n.Group) {
			return true
		}
	}
	return false
}
