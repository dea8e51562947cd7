package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/collection"
	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

// Sort keys accepted by SnapshotService.View.
const (
	SortByDate   = "date"
	SortByWeight = "weight"
	SortByGrade  = "grade"
	SortByDay    = "day"
)

// SnapshotService serves the last persisted state of each domain.
type SnapshotService struct {
	store  snapshotStore
	logger *zap.Logger
}

// NewSnapshotService constructs a SnapshotService.
func NewSnapshotService(store snapshotStore, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{store: store, logger: logger}
}

// View loads the domain snapshot and renders it, optionally sorted.
func (s *SnapshotService) View(ctx context.Context, domain models.Domain, period models.Period, sortBy string, reverse bool) (*models.SnapshotView, error) {
	if !domain.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown domain %q", domain))
	}
	snapshot, err := s.store.Load(ctx, models.SnapshotName(domain, period))
	if err != nil {
		return nil, err
	}
	view := &models.SnapshotView{Name: snapshot.Name, Domain: domain, SavedAt: snapshot.SavedAt}

	switch domain {
	case models.DomainGrades:
		records, err := decodeRecords[models.Grade](snapshot)
		if err != nil {
			return nil, err
		}
		c := collection.NewGrades(records...)
		switch sortBy {
		case "":
		case SortByDate:
			c.SortByDate(reverse)
		case SortByWeight:
			c.SortByWeight(reverse)
		case SortByGrade:
			c.SortByGrade(reverse)
		default:
			return nil, unsupportedSort(domain, sortBy)
		}
		view.Count, view.Display, view.Records = c.Len(), c.Display(), c.Records()
	case models.DomainEvents:
		records, err := decodeRecords[models.Event](snapshot)
		if err != nil {
			return nil, err
		}
		c := collection.NewEvents(records...)
		switch sortBy {
		case "":
		case SortByDay:
			c.SortByDay(reverse)
		case SortByDate:
			c.SortByDate(reverse)
		default:
			return nil, unsupportedSort(domain, sortBy)
		}
		view.Count, view.Display, view.Records = c.Len(), c.Display(), c.Records()
	case models.DomainAnnouncements:
		records, err := decodeRecords[models.Announcement](snapshot)
		if err != nil {
			return nil, err
		}
		c := collection.NewAnnouncements(records...)
		switch sortBy {
		case "":
		case SortByDate:
			c.SortByDate(reverse)
		default:
			return nil, unsupportedSort(domain, sortBy)
		}
		view.Count, view.Display, view.Records = c.Len(), c.Display(), c.Records()
	case models.DomainAttendance:
		records, err := decodeRecords[models.Attendance](snapshot)
		if err != nil {
			return nil, err
		}
		c := collection.NewAttendance(records...)
		switch sortBy {
		case "":
		case SortByDate:
			c.SortByDate(reverse)
		default:
			return nil, unsupportedSort(domain, sortBy)
		}
		view.Count, view.Display, view.Records = c.Len(), c.Display(), c.Records()
	}
	return view, nil
}

// Subjects lists the distinct subjects of the grade snapshot in first-seen order.
func (s *SnapshotService) Subjects(ctx context.Context) ([]string, error) {
	grades, err := s.grades(ctx)
	if err != nil {
		return nil, err
	}
	return grades.Subjects(), nil
}

// Average computes the weighted average of a subject from the grade snapshot.
func (s *SnapshotService) Average(ctx context.Context, subject string) (*models.SubjectAverage, error) {
	grades, err := s.grades(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := grades.CalculateAverage(subject)
	if err != nil {
		return nil, err
	}
	return &models.SubjectAverage{
		Subject:  subject,
		Average:  avg,
		Grades:   len(grades.BySubject(subject)),
		Midterms: grades.Midterms(subject),
	}, nil
}

// Events returns the stored events of one month.
func (s *SnapshotService) Events(ctx context.Context, period models.Period) ([]models.Event, error) {
	snapshot, err := s.store.Load(ctx, models.SnapshotName(models.DomainEvents, period))
	if err != nil {
		return nil, err
	}
	return decodeRecords[models.Event](snapshot)
}

func (s *SnapshotService) grades(ctx context.Context) (*collection.Grades, error) {
	snapshot, err := s.store.Load(ctx, models.SnapshotName(models.DomainGrades, models.Period{}))
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords[models.Grade](snapshot)
	if err != nil {
		return nil, err
	}
	return collection.NewGrades(records...), nil
}

func decodeRecords[R any](snapshot *models.Snapshot) ([]R, error) {
	var records []R
	if err := snapshot.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func unsupportedSort(domain models.Domain, sortBy string) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s cannot be sorted by %q", domain, sortBy))
}
