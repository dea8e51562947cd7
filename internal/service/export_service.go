package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
	"github.com/noah-isme/librus-sync/pkg/export"
	"github.com/noah-isme/librus-sync/pkg/storage"
)

type snapshotReader interface {
	View(ctx context.Context, domain models.Domain, period models.Period, sortBy string, reverse bool) (*models.SnapshotView, error)
	Events(ctx context.Context, period models.Period) ([]models.Event, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type tableRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type calendarRenderer interface {
	Render(name string, entries []export.CalendarEntry) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders stored snapshots into downloadable files.
type ExportService struct {
	snapshots snapshotReader
	storage   fileStorage
	tables    map[models.ExportFormat]tableRenderer
	calendar  calendarRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService with the csv, pdf, xlsx and ics renderers.
func NewExportService(snapshots snapshotReader, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		snapshots: snapshots,
		storage:   files,
		tables: map[models.ExportFormat]tableRenderer{
			models.ExportFormatCSV:  export.NewCSVExporter(';'),
			models.ExportFormatPDF:  export.NewPDFExporter(),
			models.ExportFormatXLSX: export.NewXLSXExporter(),
		},
		calendar: export.NewICSExporter(""),
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate renders the domain snapshot in the requested format and returns a signed link.
func (s *ExportService) Generate(ctx context.Context, domain models.Domain, period models.Period, format models.ExportFormat) (*models.ExportResult, error) {
	payload, err := s.render(ctx, domain, period, format)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	relPath, err := s.storage.Save(buildFilename(models.SnapshotName(domain, period), format), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("export generated",
		zap.String("id", id),
		zap.String("domain", string(domain)),
		zap.String("format", string(format)),
		zap.Int("bytes", len(payload)))

	return &models.ExportResult{
		ID:           id,
		Domain:       domain,
		Format:       format,
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/%s", prefix, token),
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error) {
	exportID, relPath, expiresAt, err = s.signer.Parse(token, allowExpired)
	if err != nil {
		return "", "", time.Time{}, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	return exportID, relPath, expiresAt, nil
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) render(ctx context.Context, domain models.Domain, period models.Period, format models.ExportFormat) ([]byte, error) {
	if format == models.ExportFormatICS {
		if domain != models.DomainEvents {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "ics export is only available for events")
		}
		events, err := s.snapshots.Events(ctx, period)
		if err != nil {
			return nil, err
		}
		return s.calendar.Render(fmt.Sprintf("Terminarz %04d-%02d", period.Year, period.Month), calendarEntries(events))
	}

	renderer, ok := s.tables[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
	view, err := s.snapshots.View(ctx, domain, period, "", false)
	if err != nil {
		return nil, err
	}
	return renderer.Render(buildDataset(view))
}

func buildFilename(snapshot string, format models.ExportFormat) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", snapshot, timestamp, uuid.NewString()[:8], format)
}

func buildDataset(view *models.SnapshotView) export.Dataset {
	switch records := view.Records.(type) {
	case []models.Grade:
		return gradeDataset(records)
	case []models.Event:
		return eventDataset(records)
	case []models.Announcement:
		return announcementDataset(records)
	case []models.Attendance:
		return attendanceDataset(records)
	default:
		return export.Dataset{Title: view.Name, Headers: []string{"Wpis"}}
	}
}

func gradeDataset(grades []models.Grade) export.Dataset {
	headers := []string{"Id", "Przedmiot", "Ocena", "Data", "Kategoria", "Waga", "Do średniej", "Nauczyciel", "Opis"}
	rows := make([]map[string]string, 0, len(grades))
	for _, g := range grades {
		average := ""
		switch g.CountsToAverage {
		case 1:
			average = "tak"
		case 0:
			average = "nie"
		}
		rows = append(rows, map[string]string{
			"Id":          strconv.Itoa(g.ID),
			"Przedmiot":   g.Subject,
			"Ocena":       g.Value,
			"Data":        g.Date,
			"Kategoria":   g.Kind,
			"Waga":        optionalNumber(g.Weight),
			"Do średniej": average,
			"Nauczyciel":  g.Teacher,
			"Opis":        g.Description,
		})
	}
	return export.Dataset{Title: "Oceny", Headers: headers, Rows: rows}
}

func eventDataset(events []models.Event) export.Dataset {
	headers := []string{"Data", "Rodzaj", "Wpis", "Nauczyciel", "Lekcje", "Opis"}
	rows := make([]map[string]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, map[string]string{
			"Data":       e.Date,
			"Rodzaj":     e.TypeLabel,
			"Wpis":       e.Qualifier,
			"Nauczyciel": e.Teacher,
			"Lekcje":     e.LessonRange,
			"Opis":       e.Description,
		})
	}
	return export.Dataset{Title: "Terminarz", Headers: headers, Rows: rows}
}

func announcementDataset(announcements []models.Announcement) export.Dataset {
	headers := []string{"Data", "Tytuł", "Dodał", "Treść"}
	rows := make([]map[string]string, 0, len(announcements))
	for _, a := range announcements {
		rows = append(rows, map[string]string{
			"Data":  a.Date,
			"Tytuł": a.Title,
			"Dodał": a.Teacher,
			"Treść": a.Content,
		})
	}
	return export.Dataset{Title: "Ogłoszenia", Headers: headers, Rows: rows}
}

func attendanceDataset(entries []models.Attendance) export.Dataset {
	headers := []string{"Data", "Kod", "Rodzaj", "Lekcja", "Godzina lekcyjna", "Nauczyciel", "Wycieczka"}
	rows := make([]map[string]string, 0, len(entries))
	for _, a := range entries {
		trip := "nie"
		if a.SchoolTrip == 1 {
			trip = "tak"
		}
		rows = append(rows, map[string]string{
			"Data":             a.Date,
			"Kod":              a.Code,
			"Rodzaj":           a.TypeLabel,
			"Lekcja":           a.Lesson,
			"Godzina lekcyjna": optionalNumber(a.LessonNumber),
			"Nauczyciel":       a.Teacher,
			"Wycieczka":        trip,
		})
	}
	return export.Dataset{Title: "Frekwencja", Headers: headers, Rows: rows}
}

// calendarEntries skips events whose date could not be composed.
func calendarEntries(events []models.Event) []export.CalendarEntry {
	entries := make([]export.CalendarEntry, 0, len(events))
	for i, e := range events {
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		uid := fmt.Sprintf("event-%d@librus-sync", e.ID)
		if e.ID == 0 {
			uid = fmt.Sprintf("event-%s-%d@librus-sync", e.Date, i)
		}
		summary := e.Qualifier
		if e.TypeLabel != "" {
			summary = e.TypeLabel + ": " + e.Qualifier
		}
		description := e.Description
		if e.Teacher != "" {
			description = strings.TrimSpace(description + "\nNauczyciel: " + e.Teacher)
		}
		entries = append(entries, export.CalendarEntry{UID: uid, Date: date, Summary: summary, Description: description})
	}
	return entries
}

func optionalNumber(n int) string {
	if n == models.MissingNumber {
		return ""
	}
	return strconv.Itoa(n)
}
