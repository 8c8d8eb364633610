// internal/rules/purge.go
package rules

import (
	"github.com/solatis/formlogic/internal/types"
)

/*
 * Referential integrity maintenance for field deletion.
 *
 * When fields are deleted, every remaining field's rule tree may still hold
 * conditions pointing at them. Left alone, such a condition silently
 * evaluates false forever (unresolved references fail closed), which flips
 * show rules to hidden and require rules to never-required without any
 * visible error. Purging removes the dangling leaves and collapses whatever
 * structure they leave empty.
 *
 * Rewrite, depth-first, per remaining field with logic:
 *   1. Drop condition leaves whose field_id is in the removed set
 *   2. Recurse into nested groups; drop a nested group whose rules end up
 *      empty (malformed nodes count as empty groups)
 *   3. If the root group ends up empty, clear the field's logic to nil
 *
 * Properties:
 *   - Functional: returns new trees; the input slice and trees are untouched,
 *     so callers can swap snapshots atomically (copy-on-write).
 *   - Batch: any number of ids are removed in one pass.
 *   - Idempotent: after one pass no removed reference and no empty group
 *     remains, so a second pass with the same set returns an equal result.
 *   - Total: nil/missing rules arrays are treated as empty, never an error.
 *
 * Removed fields themselves are dropped from the returned list as well.
 */

// PurgeReport summarises what a purge changed.
type PurgeReport struct {
	RemovedFields     []string `json:"removed_fields"`
	ConditionsDropped int      `json:"conditions_dropped"`
	GroupsDropped     int      `json:"groups_dropped"`
	LogicCleared      []string `json:"logic_cleared"`
}

// Changed reports whether the purge altered anything.
func (r PurgeReport) Changed() bool {
	return len(r.RemovedFields) > 0 || r.ConditionsDropped > 0 || r.GroupsDropped > 0 || len(r.LogicCleared) > 0
}

// PurgeReferences removes the given fields and every reference to them from
// the remaining fields' logic rules, as one atomic transform.
func PurgeReferences(fields []types.Field, removed types.IDSet) []types.Field {
	out, _ := PurgeWithReport(fields, removed)
	return out
}

// RemoveFields is PurgeReferences for an explicit id list.
func RemoveFields(fields []types.Field, ids ...string) []types.Field {
	return PurgeReferences(fields, types.NewIDSet(ids...))
}

// PurgeWithReport is PurgeReferences that also reports what changed.
func PurgeWithReport(fields []types.Field, removed types.IDSet) ([]types.Field, PurgeReport) {
	report := PurgeReport{
		RemovedFields: []string{},
		LogicCleared:  []string{},
	}
	out := make([]types.Field, 0, len(fields))

	for _, f := range fields {
		if removed.Has(f.ID) {
			report.RemovedFields = append(report.RemovedFields, f.ID)
			continue
		}

		next := f.Clone()
		if f.Logic != nil {
			group := purgeGroup(&f.Logic.ConditionGroup, removed, &report)
			if len(group.Rules) == 0 {
				next.Logic = nil
				report.LogicCleared = append(report.LogicCleared, f.ID)
			} else {
				next.Logic = &types.LogicRule{
					Action:         f.Logic.Action,
					ConditionGroup: group,
				}
			}
		}
		out = append(out, next)
	}

	return out, report
}

// purgeGroup returns a rewritten copy of group without removed references or
// empty nested groups. A nil group rewrites to an empty group.
func purgeGroup(group *types.ConditionGroup, removed types.IDSet, report *PurgeReport) types.ConditionGroup {
	if group == nil {
		return types.ConditionGroup{Operator: types.GroupAnd}
	}

	out := types.ConditionGroup{
		Operator: group.Operator,
		Rules:    make([]types.RuleNode, 0, len(group.Rules)),
	}

	for _, node := range group.Rules {
		if node.Condition != nil {
			if removed.Has(node.Condition.FieldID) {
				report.ConditionsDropped++
				continue
			}
			out.Rules = append(out.Rules, types.ConditionNode(*node.Condition))
			continue
		}

		nested := purgeGroup(node.Group, removed, report)
		if len(nested.Rules) == 0 {
			report.GroupsDropped++
			continue
		}
		out.Rules = append(out.Rules, types.GroupNode(nested))
	}

	return out
}

// RemoveSection deletes a section and all of its fields, purging references
// to those fields from the rest of the form in the same pass.
func RemoveSection(def types.Definition, sectionID string) (types.Definition, PurgeReport) {
	sections := make([]types.Section, 0, len(def.Sections))
	for _, s := range def.Sections {
		if s.ID != sectionID {
			sections = append(sections, s)
		}
	}

	removed := make(types.IDSet)
	for _, f := range def.Fields {
		if f.SectionID == sectionID {
			removed[f.ID] = struct{}{}
		}
	}

	fields, report := PurgeWithReport(def.Fields, removed)
	return types.Definition{Sections: sections, Fields: fields}, report
}
