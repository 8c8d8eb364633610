package rules

import (
	"fmt"

	"github.com/solatis/formlogic/internal/types"
)

// Limits bounds the size of a form a host will evaluate in one call.
// Zero means unlimited.
type Limits struct {
	MaxFields    int
	MaxRuleNodes int
}

// Engine is the entry point used by hosts (gRPC service, CLI). It adds
// request-size limits on top of the pure functions in this package; the
// functions themselves never fail.
type Engine struct {
	limits Limits
}

// NewEngine creates a new rules engine instance.
func NewEngine(limits Limits) *Engine {
	return &Engine{limits: limits}
}

// Admit checks a field list against the engine limits.
func (e *Engine) Admit(fields []types.Field) error {
	if e.limits.MaxFields > 0 && len(fields) > e.limits.MaxFields {
		return fmt.Errorf("%w: %d > %d", types.ErrTooManyFields, len(fields), e.limits.MaxFields)
	}
	if e.limits.MaxRuleNodes > 0 {
		if n := CountRuleNodes(fields); n > e.limits.MaxRuleNodes {
			return fmt.Errorf("%w: %d > %d", types.ErrTooManyRuleNodes, n, e.limits.MaxRuleNodes)
		}
	}
	return nil
}

// Resolve resolves every field after admission.
func (e *Engine) Resolve(fields []types.Field, values types.ValueMap) (map[string]types.Visibility, error) {
	if err := e.Admit(fields); err != nil {
		return nil, err
	}
	return ResolveAll(fields, values), nil
}

// Missing returns required fields left empty after admission.
func (e *Engine) Missing(fields []types.Field, values types.ValueMap) ([]types.Field, error) {
	if err := e.Admit(fields); err != nil {
		return nil, err
	}
	return MissingRequired(fields, values), nil
}

// Purge removes fields and their references after admission.
func (e *Engine) Purge(fields []types.Field, removed types.IDSet) ([]types.Field, PurgeReport, error) {
	if err := e.Admit(fields); err != nil {
		return nil, PurgeReport{}, err
	}
	out, report := PurgeWithReport(fields, removed)
	return out, report, nil
}

// Lint checks rule trees after admission.
func (e *Engine) Lint(fields []types.Field) (LintResult, error) {
	if err := e.Admit(fields); err != nil {
		return LintResult{}, err
	}
	return Lint(fields), nil
}
