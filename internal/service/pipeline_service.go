package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/collection"
	"github.com/noah-isme/librus-sync/internal/models"
	"github.com/noah-isme/librus-sync/internal/parser"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

type pageFetcher interface {
	Fetch(ctx context.Context, domain models.Domain, period models.Period) (string, error)
}

type snapshotStore interface {
	Load(ctx context.Context, name string) (*models.Snapshot, error)
	Save(ctx context.Context, snapshot *models.Snapshot) error
}

// PipelineService runs fetch, extract, diff and persist for each requested domain.
type PipelineService struct {
	fetcher pageFetcher
	store   snapshotStore
	metrics *MetricsService
	logger  *zap.Logger
}

// NewPipelineService constructs a PipelineService.
func NewPipelineService(fetcher pageFetcher, store snapshotStore, metrics *MetricsService, logger *zap.Logger) *PipelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineService{fetcher: fetcher, store: store, metrics: metrics, logger: logger}
}

// Run processes every domain in order. A failing domain is recorded in its result and
// the remaining domains still run. The run fails only when every domain failed.
func (s *PipelineService) Run(ctx context.Context, domains []models.Domain, period models.Period) models.SyncRun {
	if len(domains) == 0 {
		domains = models.AllDomains()
	}
	started := time.Now().UTC()
	run := models.SyncRun{Status: models.SyncStatusRunning, Period: period, StartedAt: started}

	failures := 0
	for _, domain := range domains {
		result, err := s.RunDomain(ctx, domain, period)
		if err != nil {
			failures++
			result.Error = err.Error()
			s.logger.Warn("sync domain failed",
				zap.String("domain", string(domain)),
				zap.String("snapshot", result.Snapshot),
				zap.Error(err))
		} else {
			s.logger.Info("sync domain completed",
				zap.String("domain", string(domain)),
				zap.Int("extracted", result.Extracted),
				zap.Int("new", result.New),
				zap.Int("modified", result.Modified))
		}
		s.metrics.ObserveDomain(result)
		run.Domains = append(run.Domains, result)
	}

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	run.Status = models.SyncStatusCompleted
	if failures == len(domains) {
		run.Status = models.SyncStatusFailed
	}
	s.metrics.ObserveRun(run.Status, finished.Sub(started))
	return run
}

// RunDomain processes a single domain and returns its result. The display of the result
// lists only records absent from the previous snapshot.
func (s *PipelineService) RunDomain(ctx context.Context, domain models.Domain, period models.Period) (models.DomainResult, error) {
	name := models.SnapshotName(domain, period)
	result := models.DomainResult{Domain: domain, Snapshot: name}

	markup, err := s.fetcher.Fetch(ctx, domain, period)
	if err != nil {
		return result, err
	}

	switch domain {
	case models.DomainGrades:
		err = s.syncGrades(ctx, name, markup, &result)
	case models.DomainEvents:
		err = s.syncEvents(ctx, name, markup, &result)
	case models.DomainAnnouncements:
		err = s.syncAnnouncements(ctx, name, markup, &result)
	case models.DomainAttendance:
		err = s.syncAttendance(ctx, name, markup, &result)
	default:
		err = appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown domain %q", domain))
	}
	return result, err
}

func (s *PipelineService) syncGrades(ctx context.Context, name, markup string, result *models.DomainResult) error {
	grades, err := parser.ParseGrades(markup)
	if err != nil {
		return fmt.Errorf("parse grades: %w", err)
	}
	current := collection.NewGrades()
	for _, g := range grades {
		current.AddUnique(g)
	}
	priorRecords, err := loadPrior[models.Grade](ctx, s, name)
	if err != nil {
		return err
	}
	if err := current.LoadPrior(collection.NewGrades(priorRecords...)); err != nil {
		return err
	}
	fresh := current.Fresh()
	if err := s.save(ctx, models.DomainGrades, name, current.Records()); err != nil {
		return err
	}
	result.Extracted, result.New, result.Display = current.Len(), fresh.Len(), fresh.Display()
	return nil
}

func (s *PipelineService) syncEvents(ctx context.Context, name, markup string, result *models.DomainResult) error {
	events, err := parser.ParseEvents(markup)
	if err != nil {
		return fmt.Errorf("parse events: %w", err)
	}
	// The extractor already drops repeated cells; cancelled lessons share identifier 0,
	// so events are not deduplicated by key here.
	current := collection.NewEvents(events...)
	priorRecords, err := loadPrior[models.Event](ctx, s, name)
	if err != nil {
		return err
	}
	if err := current.LoadPrior(collection.NewEvents(priorRecords...)); err != nil {
		return err
	}
	fresh := current.Fresh()
	if err := s.save(ctx, models.DomainEvents, name, current.Records()); err != nil {
		return err
	}
	result.Extracted, result.New, result.Display = current.Len(), fresh.Len(), fresh.Display()
	return nil
}

func (s *PipelineService) syncAnnouncements(ctx context.Context, name, markup string, result *models.DomainResult) error {
	announcements, err := parser.ParseAnnouncements(markup)
	if err != nil {
		return fmt.Errorf("parse announcements: %w", err)
	}
	current := collection.NewAnnouncements()
	for _, a := range announcements {
		current.AddUnique(a)
	}
	priorRecords, err := loadPrior[models.Announcement](ctx, s, name)
	if err != nil {
		return err
	}
	if err := current.LoadPrior(collection.NewAnnouncements(priorRecords...)); err != nil {
		return err
	}
	fresh := current.Fresh()
	if err := s.save(ctx, models.DomainAnnouncements, name, current.Records()); err != nil {
		return err
	}
	result.Extracted, result.New, result.Display = current.Len(), fresh.Len(), fresh.Display()
	return nil
}

func (s *PipelineService) syncAttendance(ctx context.Context, name, markup string, result *models.DomainResult) error {
	entries, err := parser.ParseAttendance(markup)
	if err != nil {
		return fmt.Errorf("parse attendance: %w", err)
	}
	current := collection.NewAttendance()
	for _, a := range entries {
		current.AddUnique(a)
	}
	priorRecords, err := loadPrior[models.Attendance](ctx, s, name)
	if err != nil {
		return err
	}
	if err := current.LoadPrior(collection.NewAttendance(priorRecords...)); err != nil {
		return err
	}
	added, modified := current.Changes()
	if err := s.save(ctx, models.DomainAttendance, name, current.Records()); err != nil {
		return err
	}
	result.Extracted, result.New, result.Modified = current.Len(), added.Len(), modified.Len()
	result.Display = collection.Merge(added, modified).Display()
	return nil
}

// loadPrior returns the records of the previous snapshot. A missing snapshot, or one
// written with another schema version, is an empty prior state.
func loadPrior[R any](ctx context.Context, s *PipelineService, name string) ([]R, error) {
	snapshot, err := s.store.Load(ctx, name)
	if err != nil {
		if errors.Is(err, appErrors.ErrSnapshotNotFound) {
			s.logger.Debug("no previous snapshot", zap.String("snapshot", name))
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	var records []R
	if err := snapshot.Decode(&records); err != nil {
		if errors.Is(err, appErrors.ErrSnapshotVersion) {
			s.logger.Warn("discarding snapshot with old schema", zap.String("snapshot", name), zap.Int("version", snapshot.Version))
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}

func (s *PipelineService) save(ctx context.Context, domain models.Domain, name string, records any) error {
	snapshot, err := models.NewSnapshot(domain, name, records)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	return nil
}
