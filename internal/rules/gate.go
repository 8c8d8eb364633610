// internal/rules/gate.go
package rules

import (
	"fmt"
	"strings"

	"github.com/solatis/formlogic/internal/types"
)

// MissingFieldsError lists required fields left empty at submission time.
type MissingFieldsError struct {
	Fields []types.Field
}

func (e *MissingFieldsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = displayName(f)
	}
	return fmt.Sprintf("required fields missing: %s", strings.Join(names, ", "))
}

// MissingRequired returns, in field order, every field that must be filled
// but is empty. Hidden fields are skipped even when statically required; a
// field is required when Field.Required is set or its rule resolves required.
func MissingRequired(fields []types.Field, values types.ValueMap) []types.Field {
	form := Compile(fields)
	var missing []types.Field
	for i, f := range form.fields {
		vis := form.resolveAt(i, values)
		if vis == types.Hidden {
			continue
		}
		if !f.Required && vis != types.Required {
			continue
		}
		if isBlank(values.Get(f.Name)) {
			missing = append(missing, f)
		}
	}
	return missing
}

// CheckSubmission returns a *MissingFieldsError when any required field is empty.
func CheckSubmission(fields []types.Field, values types.ValueMap) error {
	if missing := MissingRequired(fields, values); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// isBlank is the submission notion of empty: absent, null, "", or a table
// with no rows. Numbers and booleans (including false and 0) are filled.
func isBlank(v types.Value) bool {
	switch v.Kind() {
	case types.KindAbsent, types.KindNull:
		return true
	case types.KindString:
		s, _ := v.Str()
		return s == ""
	case types.KindRows:
		rows, _ := v.RowList()
		return len(rows) == 0
	default:
		return false
	}
}

func displayName(f types.Field) string {
	if f.Label != "" {
		return f.Label
	}
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}
