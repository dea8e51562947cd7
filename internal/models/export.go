package models

import "time"

// ExportFormat enumerates supported snapshot export formats.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
	// ExportFormatICS is only available for calendar events.
	ExportFormatICS ExportFormat = "ics"
)

// ExportResult describes a rendered export and its signed download link.
type ExportResult struct {
	ID           string       `json:"id"`
	Domain       Domain       `json:"domain"`
	Format       ExportFormat `json:"format"`
	RelativePath string       `json:"-"`
	Token        string       `json:"token"`
	URL          string       `json:"url"`
	ExpiresAt    time.Time    `json:"expires_at"`
}
