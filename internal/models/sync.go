package models

import "time"

// SyncStatus tracks a background sync run.
type SyncStatus string

const (
	SyncStatusQueued    SyncStatus = "QUEUED"
	SyncStatusRunning   SyncStatus = "RUNNING"
	SyncStatusCompleted SyncStatus = "COMPLETED"
	SyncStatusFailed    SyncStatus = "FAILED"
)

// DomainResult is the outcome of one domain within a run.
type DomainResult struct {
	Domain    Domain `json:"domain"`
	Snapshot  string `json:"snapshot"`
	Extracted int    `json:"extracted"`
	New       int    `json:"new"`
	Modified  int    `json:"modified,omitempty"`
	// Display holds the formatted new records only.
	Display string `json:"display"`
	Error   string `json:"error,omitempty"`
}

// Failed reports whether the domain did not complete.
func (r DomainResult) Failed() bool {
	return r.Error != ""
}

// SyncRun summarises one pipeline run over several domains.
type SyncRun struct {
	ID         string         `json:"id"`
	Status     SyncStatus     `json:"status"`
	Period     Period         `json:"period"`
	Domains    []DomainResult `json:"domains"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// Display joins the new-record output of every domain that produced any.
func (r SyncRun) Display() string {
	out := ""
	for _, d := range r.Domains {
		out += d.Display
	}
	return out
}

// SyncMetrics is a lightweight snapshot of pipeline counters.
type SyncMetrics struct {
	Runs           uint64            `json:"runs"`
	DomainFailures uint64            `json:"domain_failures"`
	NewRecords     map[Domain]uint64 `json:"new_records"`
	GeneratedAt    time.Time         `json:"generated_at"`
}
