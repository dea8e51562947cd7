package models

import (
	"encoding/json"
	"fmt"
	"time"

	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

// SnapshotVersion is bumped whenever a record shape changes.
const SnapshotVersion = 1

// Snapshot is the persisted record list of one domain from a previous run.
type Snapshot struct {
	Version int             `db:"version" json:"version"`
	Domain  Domain          `db:"domain" json:"domain"`
	Name    string          `db:"name" json:"name"`
	SavedAt time.Time       `db:"saved_at" json:"saved_at"`
	Records json.RawMessage `db:"records" json:"records"`
}

// NewSnapshot encodes records under the current schema version.
func NewSnapshot(domain Domain, name string, records any) (*Snapshot, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode %s snapshot: %w", domain, err)
	}
	return &Snapshot{
		Version: SnapshotVersion,
		Domain:  domain,
		Name:    name,
		SavedAt: time.Now().UTC(),
		Records: payload,
	}, nil
}

// Decode unmarshals the records into dest after checking the schema version.
func (s *Snapshot) Decode(dest any) error {
	if s.Version != SnapshotVersion {
		return appErrors.Clone(appErrors.ErrSnapshotVersion,
			fmt.Sprintf("snapshot %s has version %d, expected %d", s.Name, s.Version, SnapshotVersion))
	}
	if len(s.Records) == 0 {
		return nil
	}
	if err := json.Unmarshal(s.Records, dest); err != nil {
		return fmt.Errorf("decode %s snapshot: %w", s.Name, err)
	}
	return nil
}

// SnapshotName returns the store key for a domain. Events are kept per month.
func SnapshotName(domain Domain, period Period) string {
	if domain == DomainEvents {
		return fmt.Sprintf("%s-%04d-%02d", domain, period.Year, period.Month)
	}
	return string(domain)
}

// Period selects the calendar month fetched for events.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// SnapshotView is a stored snapshot rendered for API consumers.
type SnapshotView struct {
	Name    string    `json:"name"`
	Domain  Domain    `json:"domain"`
	SavedAt time.Time `json:"saved_at"`
	Count   int       `json:"count"`
	Display string    `json:"display"`
	Records any       `json:"records"`
}

// SubjectAverage is the weighted average of one subject's eligible grades.
type SubjectAverage struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
	Grades  int     `json:"grades"`
	// Midterms lists the subject's midterm grades, which never count towards Average.
	Midterms []Grade `json:"midterms"`
}
