// internal/rules/lint.go
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/formlogic/internal/types"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is a problem found in a field list without evaluating it.
type Issue struct {
	Severity string `json:"severity"`
	Field    string `json:"field,omitempty"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

// LintResult holds every issue found. Valid is false when any issue is an error.
type LintResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Lint statically checks rule trees for the mistakes the evaluator silently
// tolerates: dangling and self references, empty groups, excess nesting,
// and unknown operators. Issues are reported in field and tree order.
func Lint(fields []types.Field) LintResult {
	l := &linter{
		ids:    make(map[string]bool, len(fields)),
		result: LintResult{Valid: true, Issues: make([]Issue, 0)},
	}

	for _, f := range fields {
		if l.ids[f.ID] {
			l.add(SeverityError, f.ID, nil, fmt.Sprintf("duplicate field id %q", f.ID))
		}
		l.ids[f.ID] = true
	}

	for _, f := range fields {
		if f.Name == "" {
			l.add(SeverityWarning, f.ID, nil, "field has no name; its value can never be read")
		}
		if f.Logic == nil {
			continue
		}
		switch f.Logic.Action {
		case types.ActionShow, types.ActionHide, types.ActionRequire:
		default:
			l.add(SeverityWarning, f.ID, nil, fmt.Sprintf("unknown action %q resolves visible", f.Logic.Action))
		}
		if len(f.Logic.ConditionGroup.Rules) == 0 {
			l.add(SeverityError, f.ID, nil, "logic rule has an empty condition group; clear logic instead")
			continue
		}
		l.group(f, &f.Logic.ConditionGroup, nil)
	}

	return l.result
}

type linter struct {
	ids    map[string]bool
	result LintResult
}

func (l *linter) add(severity, field string, path NodePath, msg string) {
	if severity == SeverityError {
		l.result.Valid = false
	}
	l.result.Issues = append(l.result.Issues, Issue{
		Severity: severity,
		Field:    field,
		Path:     formatPath(path),
		Message:  msg,
	})
}

func (l *linter) group(f types.Field, g *types.ConditionGroup, path NodePath) {
	if g.Operator != types.GroupAnd && g.Operator != types.GroupOr {
		l.add(SeverityWarning, f.ID, path, fmt.Sprintf("unknown group operator %q evaluates as OR", g.Operator))
	}
	if len(path) > types.MaxGroupDepth {
		l.add(SeverityWarning, f.ID, path, fmt.Sprintf("group nested at depth %d exceeds %d", len(path), types.MaxGroupDepth))
	}
	if len(path) > 0 && len(g.Rules) == 0 {
		l.add(SeverityWarning, f.ID, path, "empty nested group always evaluates true")
	}

	for i, node := range g.Rules {
		p := append(append(NodePath(nil), path...), i)
		switch {
		case node.Condition != nil:
			l.condition(f, *node.Condition, p)
		case node.Group != nil:
			l.group(f, node.Group, p)
		default:
			l.add(SeverityWarning, f.ID, p, "malformed rule node is neither condition nor group")
		}
	}
}

func (l *linter) condition(f types.Field, c types.Condition, path NodePath) {
	switch {
	case c.FieldID == "":
		l.add(SeverityWarning, f.ID, path, "condition has no field selected and always evaluates false")
	case c.FieldID == f.ID:
		l.add(SeverityError, f.ID, path, "condition references its own field")
	case !l.ids[c.FieldID]:
		l.add(SeverityError, f.ID, path, fmt.Sprintf("condition references missing field %q", c.FieldID))
	}

	if !c.Operator.Known() {
		l.add(SeverityWarning, f.ID, path, fmt.Sprintf("unknown operator %q always evaluates false", c.Operator))
	} else if !c.Operator.NeedsValue() && c.Value != "" {
		l.add(SeverityWarning, f.ID, path, fmt.Sprintf("value %q is ignored by %s", c.Value, c.Operator))
	}
}

// formatPath renders a node path as dot-separated indexes ("0.2.1").
func formatPath(path NodePath) string {
	if len(path) == 0 {
		return ""
	}
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}
