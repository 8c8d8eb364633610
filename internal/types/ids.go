package types

import (
	"strings"

	"github.com/google/uuid"
)

// Prefixes keep field and section ids distinguishable in definition documents.
const (
	fieldIDPrefix   = "fld_"
	sectionIDPrefix = "sec_"
)

// NewFieldID generates a prefixed UUIDv7 field identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewFieldID() string {
	return fieldIDPrefix + compactUUID()
}

// NewSectionID generates a prefixed UUIDv7 section identifier.
func NewSectionID() string {
	return sectionIDPrefix + compactUUID()
}

// NewPurgeID generates a UUIDv7 identifier for a purge journal entry.
// Time-ordered IDs keep journal inserts clustered and listable by recency.
func NewPurgeID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ParsePurgeID validates a journal entry identifier.
func ParsePurgeID(s string) (string, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return s, nil
}

func compactUUID() string {
	return strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}
