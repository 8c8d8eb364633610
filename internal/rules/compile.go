// internal/rules/compile.go
package rules

import (
	"sort"

	"github.com/solatis/formlogic/internal/types"
)

/*
 * Form compilation for whole-form evaluation.
 *
 * The renderer re-resolves every field on each value change. Resolving field
 * by field with a linear field_id scan costs O(nodes * fields); Compile builds
 * an id index once and pre-resolves every condition's target field, so a full
 * ResolveAll is O(total rule nodes).
 *
 * Compilation workflow:
 *   1. Index fields by id (first occurrence wins, matching linear lookup)
 *   2. Pre-resolve each condition's target; unresolved stays nil (false)
 *   3. Calculate node costs using the cost model in cost.go
 *   4. Order siblings by ascending cost (stable sort for determinism)
 *
 * Why reordering is safe: evaluation is pure and total, so AND/OR results do
 * not depend on sibling order. Cheap and constant nodes first lets AND/OR
 * short-circuit before nested groups are visited.
 *
 * Compile never fails and never validates; malformed trees compile to the
 * same defaults the uncompiled evaluators use. Use Lint for diagnostics.
 */

// compiledNode is a pre-resolved rule node. Exactly one of cond or group is set.
type compiledNode struct {
	cond   *types.Condition
	target *types.Field // nil when cond.FieldID does not resolve
	group  *compiledGroup
	cost   int
}

// compiledGroup is a rule group with cost-ordered children.
type compiledGroup struct {
	all   bool
	nodes []compiledNode
	cost  int
}

// Form is an immutable compiled snapshot of a field list.
type Form struct {
	fields []types.Field
	index  map[string]int
	logic  []*compiledGroup // aligned with fields; nil when the field has no logic
}

// Compile indexes fields and pre-processes every logic rule for evaluation.
// Fields are deep-copied; later edits by the caller, including edits through
// shared Logic pointers, do not affect the Form.
func Compile(fields []types.Field) *Form {
	f := &Form{
		fields: make([]types.Field, len(fields)),
		index:  make(map[string]int, len(fields)),
		logic:  make([]*compiledGroup, len(fields)),
	}
	for i := range fields {
		f.fields[i] = fields[i].Clone()
	}

	for i := range f.fields {
		if _, dup := f.index[f.fields[i].ID]; !dup {
			f.index[f.fields[i].ID] = i
		}
	}

	for i := range f.fields {
		if l := f.fields[i].Logic; l != nil {
			f.logic[i] = f.compileGroup(&l.ConditionGroup)
		}
	}

	return f
}

// compileGroup recursively compiles a group, ordering children by cost.
func (f *Form) compileGroup(group *types.ConditionGroup) *compiledGroup {
	cg := &compiledGroup{cost: CostGroupOverhead}
	if group == nil {
		return cg
	}
	cg.all = group.Operator == types.GroupAnd
	cg.nodes = make([]compiledNode, 0, len(group.Rules))

	for _, node := range group.Rules {
		var cn compiledNode
		if node.Condition != nil {
			cond := *node.Condition
			cn.cond = &cond
			if idx, ok := f.index[cond.FieldID]; ok {
				cn.target = &f.fields[idx]
			}
			cn.cost = CalculateConditionCost(cond.Operator, cn.target != nil)
		} else {
			cn.group = f.compileGroup(node.Group)
			cn.cost = cn.group.cost
		}
		cg.nodes = append(cg.nodes, cn)
		cg.cost += cn.cost
	}

	// Stable sort: equal-cost siblings keep builder order
	sort.SliceStable(cg.nodes, func(i, j int) bool {
		return cg.nodes[i].cost < cg.nodes[j].cost
	})

	return cg
}

// Fields returns the compiled field snapshot. Callers must not mutate it.
func (f *Form) Fields() []types.Field {
	return f.fields
}

// Field looks up a field by id.
func (f *Form) Field(id string) (types.Field, bool) {
	idx, ok := f.index[id]
	if !ok {
		return types.Field{}, false
	}
	return f.fields[idx], true
}

// Resolve returns the visibility of the field with the given id.
// Unknown ids resolve visible, the same as a field without logic.
func (f *Form) Resolve(id string, values types.ValueMap) types.Visibility {
	idx, ok := f.index[id]
	if !ok {
		return types.Visible
	}
	return f.resolveAt(idx, values)
}

// ResolveAll resolves every field keyed by id. On duplicate ids the first
// field's state is kept.
func (f *Form) ResolveAll(values types.ValueMap) map[string]types.Visibility {
	out := make(map[string]types.Visibility, len(f.fields))
	for i := range f.fields {
		if _, seen := out[f.fields[i].ID]; seen {
			continue
		}
		out[f.fields[i].ID] = f.resolveAt(i, values)
	}
	return out
}

func (f *Form) resolveAt(idx int, values types.ValueMap) types.Visibility {
	l := f.fields[idx].Logic
	if l == nil {
		return types.Visible
	}
	return applyAction(l.Action, f.logic[idx].evaluate(values))
}

// evaluate mirrors evaluateGroup over the compiled tree.
func (g *compiledGroup) evaluate(values types.ValueMap) bool {
	if len(g.nodes) == 0 {
		return true
	}
	for i := range g.nodes {
		matched := g.nodes[i].evaluate(values)
		if g.all && !matched {
			return false
		}
		if !g.all && matched {
			return true
		}
	}
	return g.all
}

func (n *compiledNode) evaluate(values types.ValueMap) bool {
	if n.group != nil {
		return n.group.evaluate(values)
	}
	if n.target == nil {
		return false
	}
	return Compare(n.cond.Operator, values.Get(n.target.Name), n.cond.Value)
}

// CountRuleNodes returns the total number of rule nodes across all fields,
// including nested group nodes. Hosts use it to bound request size.
func CountRuleNodes(fields []types.Field) int {
	total := 0
	for _, f := range fields {
		if f.Logic != nil {
			total += countGroup(&f.Logic.ConditionGroup)
		}
	}
	return total
}

func countGroup(group *types.ConditionGroup) int {
	if group == nil {
		return 0
	}
	n := 0
	for _, node := range group.Rules {
		n++
		if node.Condition == nil {
			n += countGroup(node.Group)
		}
	}
	return n
}
