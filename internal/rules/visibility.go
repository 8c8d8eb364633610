// internal/rules/visibility.go
package rules

import (
	"github.com/solatis/formlogic/internal/types"
)

/*
 * Visibility resolution.
 *
 * Maps a field's logic rule and its group result to a visibility state:
 *
 *   action  | group true | group false
 *   show    | visible    | hidden
 *   hide    | hidden     | visible
 *   require | required   | visible
 *
 * Fields without logic, and rules with an unknown action, are visible.
 * Callers skip hidden fields entirely and treat required exactly like a
 * statically required field at submission time.
 */

// Resolve returns the visibility state of field given current values.
func Resolve(field types.Field, values types.ValueMap, fields []types.Field) types.Visibility {
	if field.Logic == nil {
		return types.Visible
	}
	matched := evaluateGroup(&field.Logic.ConditionGroup, values, sliceLookup(fields))
	return applyAction(field.Logic.Action, matched)
}

// ResolveAll resolves every field in one pass, keyed by field id.
// Builds the field index once so the cost is linear in total rule nodes.
func ResolveAll(fields []types.Field, values types.ValueMap) map[string]types.Visibility {
	return Compile(fields).ResolveAll(values)
}

// applyAction maps an action and group outcome to a visibility state.
func applyAction(action types.Action, matched bool) types.Visibility {
	switch action {
	case types.ActionShow:
		if matched {
			return types.Visible
		}
		return types.Hidden
	case types.ActionHide:
		if matched {
			return types.Hidden
		}
		return types.Visible
	case types.ActionRequire:
		if matched {
			return types.Required
		}
		return types.Visible
	default:
		return types.Visible
	}
}

// SectionVisible reports whether any field of the section is not hidden.
// A section with no fields is not shown.
func SectionVisible(sectionID string, fields []types.Field, states map[string]types.Visibility) bool {
	for _, f := range fields {
		if f.SectionID != sectionID {
			continue
		}
		if states[f.ID] != types.Hidden {
			return true
		}
	}
	return false
}
