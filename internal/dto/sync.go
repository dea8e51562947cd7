package dto

import "github.com/noah-isme/librus-sync/internal/models"

// SyncRequest captures POST /sync and POST /sync/run payloads. An empty domain list
// syncs every domain; a zero period selects the current month.
type SyncRequest struct {
	Domains []string `json:"domains" validate:"omitempty,dive,oneof=grades events announcements attendance"`
	Year    int      `json:"year" validate:"omitempty,min=2000,max=2100"`
	Month   int      `json:"month" validate:"omitempty,min=1,max=12"`
}

// SyncJobResponse is returned after enqueueing a background sync.
type SyncJobResponse struct {
	ID     string            `json:"id"`
	Status models.SyncStatus `json:"status"`
}
