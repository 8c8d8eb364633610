package api

import (
	"github.com/solatis/formlogic/internal/core/db"
	"github.com/solatis/formlogic/internal/rules"
	"github.com/solatis/formlogic/internal/types"
)

// ResolveRequest asks for the visibility of every field in a definition.
// Values are keyed by field name and decoded as plain JSON.
type ResolveRequest struct {
	Definition types.Definition `json:"definition"`
	Values     map[string]any   `json:"values"`
	Explain    bool             `json:"explain,omitempty"`
}

// ResolveResponse carries per-field states keyed by field id and per-section
// display flags keyed by section id.
type ResolveResponse struct {
	States   map[string]types.Visibility `json:"states"`
	Sections map[string]bool             `json:"sections"`
	Explain  map[string]rules.NodeResult `json:"explain,omitempty"`
}

// CheckSubmissionRequest validates a submission against required fields.
type CheckSubmissionRequest struct {
	Definition types.Definition `json:"definition"`
	Values     map[string]any   `json:"values"`
}

// MissingField identifies a required field left empty.
type MissingField struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
}

// CheckSubmissionResponse reports whether the submission may proceed.
type CheckSubmissionResponse struct {
	Valid   bool           `json:"valid"`
	Missing []MissingField `json:"missing"`
}

// PurgeRequest removes fields, or whole sections, and every reference to them.
type PurgeRequest struct {
	FormID     string           `json:"form_id,omitempty"`
	Definition types.Definition `json:"definition"`
	FieldIDs   []string         `json:"field_ids,omitempty"`
	SectionIDs []string         `json:"section_ids,omitempty"`
}

// PurgeResponse returns the rewritten definition and what changed.
// PurgeID is set when the purge was journaled.
type PurgeResponse struct {
	Definition types.Definition  `json:"definition"`
	Report     rules.PurgeReport `json:"report"`
	PurgeID    string            `json:"purge_id,omitempty"`
}

// LintRequest asks for static diagnostics on a definition.
type LintRequest struct {
	Definition types.Definition `json:"definition"`
}

// LintResponse is the linter result.
type LintResponse = rules.LintResult

// JournalRequest lists recent purges, or fetches one when PurgeID is set.
type JournalRequest struct {
	FormID  string `json:"form_id,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	PurgeID string `json:"purge_id,omitempty"`
}

// JournalResponse carries journal entries, newest first.
type JournalResponse struct {
	Entries []db.JournalEntry `json:"entries"`
}
