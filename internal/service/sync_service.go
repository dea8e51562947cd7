package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/dto"
	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
	"github.com/noah-isme/librus-sync/pkg/jobs"
)

const defaultRunHistory = 50

type pipelineRunner interface {
	Run(ctx context.Context, domains []models.Domain, period models.Period) models.SyncRun
}

// SyncConfig tunes background sync behaviour.
type SyncConfig struct {
	Domains    []models.Domain
	Interval   time.Duration
	Retries    int
	RetryDelay time.Duration
	History    int
}

type syncJob struct {
	Domains []models.Domain
	Period  models.Period
}

// SyncService queues pipeline runs on a single worker and tracks their outcome.
type SyncService struct {
	pipeline  pipelineRunner
	queue     *jobs.Queue[syncJob]
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SyncConfig
	now       func() time.Time

	mu    sync.RWMutex
	runs  map[string]*models.SyncRun
	order []string

	// runSlot admits one pipeline run at a time, queued or synchronous.
	runSlot chan struct{}

	stopTicker context.CancelFunc
	tickerDone chan struct{}
}

// NewSyncService constructs a SyncService. Start must be called before Enqueue.
func NewSyncService(pipeline pipelineRunner, validate *validator.Validate, cfg SyncConfig, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if len(cfg.Domains) == 0 {
		cfg.Domains = models.AllDomains()
	}
	if cfg.History <= 0 {
		cfg.History = defaultRunHistory
	}
	s := &SyncService{
		pipeline:  pipeline,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		runs:      make(map[string]*models.SyncRun),
		runSlot:   make(chan struct{}, 1),
	}
	// One worker: two runs must never write the same snapshot concurrently.
	s.queue = jobs.NewQueue("sync", s.handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 8,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the worker and, when an interval is configured, the periodic trigger.
func (s *SyncService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	if s.cfg.Interval <= 0 {
		return
	}
	tickCtx, cancel := context.WithCancel(ctx)
	s.stopTicker = cancel
	s.tickerDone = make(chan struct{})
	go s.schedule(tickCtx)
}

// Stop halts the periodic trigger and the worker.
func (s *SyncService) Stop() {
	if s.stopTicker != nil {
		s.stopTicker()
		<-s.tickerDone
	}
	s.queue.Stop()
}

// Enqueue validates the request and queues a background run.
func (s *SyncService) Enqueue(req dto.SyncRequest) (*models.SyncRun, error) {
	domains, period, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	return s.enqueue(domains, period)
}

// RunNow validates the request and runs the pipeline synchronously. It waits for a
// background run in progress to finish first.
func (s *SyncService) RunNow(ctx context.Context, req dto.SyncRequest) (*models.SyncRun, error) {
	domains, period, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	run, err := s.runExclusive(ctx, domains, period)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "another sync is still running")
	}
	run.ID = uuid.NewString()
	s.track(&run)
	return &run, nil
}

// Get returns a tracked run.
func (s *SyncService) Get(id string) (*models.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("sync run %s not found", id))
	}
	copied := *run
	return &copied, nil
}

// List returns tracked runs, newest first.
func (s *SyncService) List() []models.SyncRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SyncRun, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, *s.runs[s.order[i]])
	}
	return out
}

func (s *SyncService) enqueue(domains []models.Domain, period models.Period) (*models.SyncRun, error) {
	run := &models.SyncRun{
		ID:        uuid.NewString(),
		Status:    models.SyncStatusQueued,
		Period:    period,
		StartedAt: s.now().UTC(),
	}
	copied := *run
	s.track(run)
	if err := s.queue.TryEnqueue(jobs.Job[syncJob]{ID: run.ID, Payload: syncJob{Domains: domains, Period: period}}); err != nil {
		s.forget(run.ID)
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "sync queue is full")
		}
		return nil, err
	}
	return &copied, nil
}

func (s *SyncService) handle(ctx context.Context, job jobs.Job[syncJob]) error {
	s.update(job.ID, func(run *models.SyncRun) {
		run.Status = models.SyncStatusRunning
	})

	result, err := s.runExclusive(ctx, job.Payload.Domains, job.Payload.Period)
	if err != nil {
		return err
	}
	result.ID = job.ID
	s.update(job.ID, func(run *models.SyncRun) {
		*run = result
	})

	if result.Status == models.SyncStatusFailed {
		return fmt.Errorf("sync run %s failed in every domain", job.ID)
	}
	return nil
}

func (s *SyncService) runExclusive(ctx context.Context, domains []models.Domain, period models.Period) (models.SyncRun, error) {
	select {
	case s.runSlot <- struct{}{}:
	case <-ctx.Done():
		return models.SyncRun{}, ctx.Err()
	}
	defer func() { <-s.runSlot }()
	return s.pipeline.Run(ctx, domains, period), nil
}

func (s *SyncService) schedule(ctx context.Context) {
	defer close(s.tickerDone)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run, err := s.enqueue(s.cfg.Domains, models.PeriodOf(s.now()))
			if err != nil {
				s.logger.Warn("scheduled sync skipped", zap.Error(err))
				continue
			}
			s.logger.Info("scheduled sync queued", zap.String("id", run.ID))
		}
	}
}

func (s *SyncService) resolve(req dto.SyncRequest) ([]models.Domain, models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, models.Period{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sync payload")
	}
	if (req.Year == 0) != (req.Month == 0) {
		return nil, models.Period{}, appErrors.Clone(appErrors.ErrValidation, "year and month must be given together")
	}

	domains := s.cfg.Domains
	if len(req.Domains) > 0 {
		domains = make([]models.Domain, 0, len(req.Domains))
		seen := make(map[models.Domain]bool, len(req.Domains))
		for _, raw := range req.Domains {
			d, _ := models.ParseDomain(raw)
			if !seen[d] {
				seen[d] = true
				domains = append(domains, d)
			}
		}
	}

	period := models.Period{Year: req.Year, Month: req.Month}
	if req.Year == 0 {
		period = models.PeriodOf(s.now())
	}
	return domains, period, nil
}

func (s *SyncService) track(run *models.SyncRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	for len(s.order) > s.cfg.History {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *SyncService) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *SyncService) update(id string, apply func(*models.SyncRun)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		apply(run)
	}
}
