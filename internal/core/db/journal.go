package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/formlogic/internal/types"
)

// ErrEntryNotFound indicates a purge id with no journal row.
var ErrEntryNotFound = errors.New("journal entry not found")

// JournalEntry is the audit record of one purge.
type JournalEntry struct {
	PurgeID           string    `json:"purge_id"`
	FormID            string    `json:"form_id"`
	RemovedIDs        []string  `json:"removed_ids"`
	ConditionsDropped int       `json:"conditions_dropped"`
	GroupsDropped     int       `json:"groups_dropped"`
	LogicCleared      []string  `json:"logic_cleared"`
	CreatedAt         time.Time `json:"created_at"`
}

// journalRow is the stored shape; id lists are JSON-encoded columns.
type journalRow struct {
	PurgeID           string    `db:"purge_id"`
	FormID            string    `db:"form_id"`
	RemovedIDs        string    `db:"removed_ids"`
	ConditionsDropped int       `db:"conditions_dropped"`
	GroupsDropped     int       `db:"groups_dropped"`
	LogicCleared      string    `db:"logic_cleared"`
	CreatedAt         time.Time `db:"created_at"`
}

func (r journalRow) entry() (JournalEntry, error) {
	e := JournalEntry{
		PurgeID:           r.PurgeID,
		FormID:            r.FormID,
		ConditionsDropped: r.ConditionsDropped,
		GroupsDropped:     r.GroupsDropped,
		CreatedAt:         r.CreatedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(r.RemovedIDs), &e.RemovedIDs); err != nil {
		return JournalEntry{}, fmt.Errorf("purge %s: decode removed_ids: %w", r.PurgeID, err)
	}
	if err := json.Unmarshal([]byte(r.LogicCleared), &e.LogicCleared); err != nil {
		return JournalEntry{}, fmt.Errorf("purge %s: decode logic_cleared: %w", r.PurgeID, err)
	}
	return e, nil
}

// Journal records purges so field deletions can be audited after the fact.
type Journal struct {
	queries *Queries
	now     func() time.Time
}

// NewJournal loads the journal queries for db. The schema must be migrated.
func NewJournal(db *sqlx.DB) (*Journal, error) {
	q, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &Journal{queries: q, now: time.Now}, nil
}

// Record stores an entry, assigning a UUIDv7 purge id and creation time when
// unset, and returns the stored entry.
func (j *Journal) Record(ctx context.Context, entry JournalEntry) (JournalEntry, error) {
	if entry.PurgeID == "" {
		entry.PurgeID = types.NewPurgeID()
	} else if _, err := types.ParsePurgeID(entry.PurgeID); err != nil {
		return JournalEntry{}, fmt.Errorf("invalid purge id %q: %w", entry.PurgeID, err)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = j.now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	if entry.RemovedIDs == nil {
		entry.RemovedIDs = []string{}
	}
	if entry.LogicCleared == nil {
		entry.LogicCleared = []string{}
	}

	removed, err := json.Marshal(entry.RemovedIDs)
	if err != nil {
		return JournalEntry{}, err
	}
	cleared, err := json.Marshal(entry.LogicCleared)
	if err != nil {
		return JournalEntry{}, err
	}

	_, err = j.queries.Exec(ctx, "insert-purge",
		entry.PurgeID,
		entry.FormID,
		string(removed),
		entry.ConditionsDropped,
		entry.GroupsDropped,
		string(cleared),
		entry.CreatedAt,
	)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("record purge: %w", err)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first. formID filters when non-empty.
func (j *Journal) Recent(ctx context.Context, formID string, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		return []JournalEntry{}, nil
	}

	var rows []journalRow
	var err error
	if formID == "" {
		err = j.queries.Select(ctx, "recent-purges", &rows, limit)
	} else {
		err = j.queries.Select(ctx, "recent-purges-for-form", &rows, formID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list purges: %w", err)
	}

	entries := make([]JournalEntry, 0, len(rows))
	for _, r := range rows {
		e, err := r.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Get returns a single entry by purge id.
func (j *Journal) Get(ctx context.Context, purgeID string) (JournalEntry, error) {
	var row journalRow
	if err := j.queries.Get(ctx, "get-purge", &row, purgeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JournalEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, purgeID)
		}
		return JournalEntry{}, fmt.Errorf("get purge: %w", err)
	}
	return row.entry()
}
