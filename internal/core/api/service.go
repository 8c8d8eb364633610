// Package api provides the gRPC service implementation for FormLogic.
//
// The service is a thin host over the rules package: it decodes request
// values, applies request-size limits through rules.Engine, and optionally
// records purges in the journal. Every request works on its own snapshot of
// the definition; the service holds no per-form state.
package api

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/solatis/formlogic/internal/core/db"
	"github.com/solatis/formlogic/internal/rules"
	"github.com/solatis/formlogic/internal/types"
)

// defaultJournalLimit bounds Journal responses when the caller sets no limit.
const defaultJournalLimit = 50

// Journal is the purge audit store. Implemented by *db.Journal.
type Journal interface {
	Record(ctx context.Context, entry db.JournalEntry) (db.JournalEntry, error)
	Recent(ctx context.Context, formID string, limit int) ([]db.JournalEntry, error)
	Get(ctx context.Context, purgeID string) (db.JournalEntry, error)
}

// Service implements FormLogicServer.
type Service struct {
	engine  *rules.Engine
	journal Journal
	logger  *zap.Logger
}

// NewService creates a service. journal may be nil, in which case purges are
// not recorded and Journal requests fail with UNAVAILABLE.
func NewService(engine *rules.Engine, journal Journal, logger *zap.Logger) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, journal: journal, logger: logger}, nil
}

// Resolve returns the visibility of every field and section.
func (s *Service) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	fields := req.Definition.Fields
	values, err := decodeValues(req.Values)
	if err != nil {
		return nil, toStatus(err)
	}
	states, err := s.engine.Resolve(fields, values)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &ResolveResponse{
		States:   states,
		Sections: make(map[string]bool, len(req.Definition.Sections)),
	}
	for _, sec := range req.Definition.Sections {
		resp.Sections[sec.ID] = rules.SectionVisible(sec.ID, fields, states)
	}

	if req.Explain {
		resp.Explain = make(map[string]rules.NodeResult)
		for _, f := range fields {
			if f.Logic == nil {
				continue
			}
			if _, seen := resp.Explain[f.ID]; seen {
				continue
			}
			resp.Explain[f.ID] = rules.Explain(&f.Logic.ConditionGroup, values, fields)
		}
	}

	return resp, nil
}

// CheckSubmission reports required fields left empty. A submission with
// missing fields is a valid request with Valid=false, not an error.
func (s *Service) CheckSubmission(ctx context.Context, req *CheckSubmissionRequest) (*CheckSubmissionResponse, error) {
	values, err := decodeValues(req.Values)
	if err != nil {
		return nil, toStatus(err)
	}
	missing, err := s.engine.Missing(req.Definition.Fields, values)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &CheckSubmissionResponse{Valid: len(missing) == 0, Missing: make([]MissingField, 0, len(missing))}
	for _, f := range missing {
		resp.Missing = append(resp.Missing, MissingField{ID: f.ID, Name: f.Name, Label: f.Label})
	}
	return resp, nil
}

// Purge removes the requested fields and sections and every reference to
// them in one pass. Unknown ids are rejected so a typo cannot silently
// journal an empty purge.
func (s *Service) Purge(ctx context.Context, req *PurgeRequest) (*PurgeResponse, error) {
	def := req.Definition
	if len(req.FieldIDs) == 0 && len(req.SectionIDs) == 0 {
		return nil, toStatus(fmt.Errorf("%w: no field_ids or section_ids given", types.ErrFieldNotFound))
	}

	removed, sections, err := purgeTargets(def, req.FieldIDs, req.SectionIDs)
	if err != nil {
		return nil, toStatus(err)
	}

	fields, report, err := s.engine.Purge(def.Fields, removed)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &PurgeResponse{
		Definition: types.Definition{Sections: sections, Fields: fields},
		Report:     report,
	}

	if s.journal != nil {
		entry, err := s.journal.Record(ctx, db.JournalEntry{
			FormID:            req.FormID,
			RemovedIDs:        report.RemovedFields,
			ConditionsDropped: report.ConditionsDropped,
			GroupsDropped:     report.GroupsDropped,
			LogicCleared:      report.LogicCleared,
		})
		if err != nil {
			s.logger.Error("failed to journal purge",
				zap.String("form_id", req.FormID),
				zap.Strings("removed", report.RemovedFields),
				zap.Error(err))
			return nil, toStatus(fmt.Errorf("%w: %v", errJournal, err))
		}
		resp.PurgeID = entry.PurgeID
	}

	s.logger.Info("purged fields",
		zap.String("form_id", req.FormID),
		zap.String("purge_id", resp.PurgeID),
		zap.Int("removed", len(report.RemovedFields)),
		zap.Int("conditions_dropped", report.ConditionsDropped),
		zap.Int("groups_dropped", report.GroupsDropped),
		zap.Int("logic_cleared", len(report.LogicCleared)))

	return resp, nil
}

// purgeTargets resolves field and section ids into the removal set and the
// surviving sections.
func purgeTargets(def types.Definition, fieldIDs, sectionIDs []string) (types.IDSet, []types.Section, error) {
	known := make(types.IDSet, len(def.Fields))
	for _, f := range def.Fields {
		known[f.ID] = struct{}{}
	}

	removed := make(types.IDSet, len(fieldIDs))
	for _, id := range fieldIDs {
		if !known.Has(id) {
			return nil, nil, fmt.Errorf("%w: %s", types.ErrFieldNotFound, id)
		}
		removed[id] = struct{}{}
	}

	dropSections := types.NewIDSet(sectionIDs...)
	found := make(types.IDSet, len(sectionIDs))
	sections := make([]types.Section, 0, len(def.Sections))
	for _, sec := range def.Sections {
		if dropSections.Has(sec.ID) {
			found[sec.ID] = struct{}{}
			continue
		}
		sections = append(sections, sec)
	}
	for _, id := range sectionIDs {
		if !found.Has(id) {
			return nil, nil, fmt.Errorf("%w: section %s", types.ErrFieldNotFound, id)
		}
	}
	for _, f := range def.Fields {
		if dropSections.Has(f.SectionID) {
			removed[f.ID] = struct{}{}
		}
	}

	return removed, sections, nil
}

// Lint returns static diagnostics for the definition.
func (s *Service) Lint(ctx context.Context, req *LintRequest) (*LintResponse, error) {
	res, err := s.engine.Lint(req.Definition.Fields)
	if err != nil {
		return nil, toStatus(err)
	}
	return &res, nil
}

// Journal lists recent purges, newest first. A request naming a purge id
// returns that single entry, or NOT_FOUND.
func (s *Service) Journal(ctx context.Context, req *JournalRequest) (*JournalResponse, error) {
	if s.journal == nil {
		return nil, toStatus(fmt.Errorf("%w: no database configured", errJournal))
	}

	if req.PurgeID != "" {
		entry, err := s.journal.Get(ctx, req.PurgeID)
		if err != nil {
			return nil, journalStatus(err)
		}
		return &JournalResponse{Entries: []db.JournalEntry{entry}}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultJournalLimit
	}
	entries, err := s.journal.Recent(ctx, req.FormID, limit)
	if err != nil {
		return nil, journalStatus(err)
	}
	return &JournalResponse{Entries: entries}, nil
}

// journalStatus maps a journal store error, keeping context expiry and
// missing entries distinct from store failures.
func journalStatus(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, db.ErrEntryNotFound):
		return toStatus(err)
	default:
		return toStatus(fmt.Errorf("%w: %v", errJournal, err))
	}
}
