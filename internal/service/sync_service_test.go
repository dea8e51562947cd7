package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/dto"
	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

type pipelineStub struct {
	mu     sync.Mutex
	calls  []syncJob
	status models.SyncStatus
}

func (p *pipelineStub) Run(_ context.Context, domains []models.Domain, period models.Period) models.SyncRun {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, syncJob{Domains: domains, Period: period})
	status := p.status
	if status == "" {
		status = models.SyncStatusCompleted
	}
	finished := time.Now().UTC()
	results := make([]models.DomainResult, 0, len(domains))
	for _, d := range domains {
		results = append(results, models.DomainResult{Domain: d, Snapshot: models.SnapshotName(d, period)})
	}
	return models.SyncRun{Status: status, Period: period, Domains: results, StartedAt: finished, FinishedAt: &finished}
}

func (p *pipelineStub) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func fixedClock() time.Time {
	return time.Date(2019, 9, 18, 10, 0, 0, 0, time.UTC)
}

func TestSyncServiceRunNowDefaults(t *testing.T) {
	pipeline := &pipelineStub{}
	svc := NewSyncService(pipeline, nil, SyncConfig{}, zap.NewNop())
	svc.now = fixedClock

	run, err := svc.RunNow(context.Background(), dto.SyncRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, models.Period{Year: 2019, Month: 9}, run.Period)
	assert.Len(t, run.Domains, 4)

	stored, err := svc.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusCompleted, stored.Status)
}

func TestSyncServiceRunNowDedupsDomains(t *testing.T) {
	pipeline := &pipelineStub{}
	svc := NewSyncService(pipeline, nil, SyncConfig{}, nil)

	run, err := svc.RunNow(context.Background(), dto.SyncRequest{Domains: []string{"events", "grades", "events"}, Year: 2019, Month: 10})
	require.NoError(t, err)
	require.Len(t, run.Domains, 2)
	assert.Equal(t, "events-2019-10", run.Domains[0].Snapshot)
	assert.Equal(t, models.DomainGrades, run.Domains[1].Domain)
}

func TestSyncServiceValidation(t *testing.T) {
	svc := NewSyncService(&pipelineStub{}, nil, SyncConfig{}, nil)

	_, err := svc.RunNow(context.Background(), dto.SyncRequest{Domains: []string{"timetable"}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.RunNow(context.Background(), dto.SyncRequest{Year: 2019})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.RunNow(context.Background(), dto.SyncRequest{Year: 2019, Month: 13})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSyncServiceEnqueueRunsInBackground(t *testing.T) {
	pipeline := &pipelineStub{}
	svc := NewSyncService(pipeline, nil, SyncConfig{}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	queued, err := svc.Enqueue(dto.SyncRequest{Domains: []string{"grades"}})
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusQueued, queued.Status)

	require.Eventually(t, func() bool {
		run, err := svc.Get(queued.ID)
		return err == nil && run.Status == models.SyncStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	runs := svc.List()
	require.Len(t, runs, 1)
	assert.Equal(t, queued.ID, runs[0].ID)
}

func TestSyncServiceEnqueueBeforeStart(t *testing.T) {
	svc := NewSyncService(&pipelineStub{}, nil, SyncConfig{}, nil)
	_, err := svc.Enqueue(dto.SyncRequest{})
	require.Error(t, err)
	assert.Empty(t, svc.List())
}

func TestSyncServiceGetUnknown(t *testing.T) {
	svc := NewSyncService(&pipelineStub{}, nil, SyncConfig{}, nil)
	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSyncServiceScheduledRuns(t *testing.T) {
	pipeline := &pipelineStub{}
	svc := NewSyncService(pipeline, nil, SyncConfig{Interval: 20 * time.Millisecond, Domains: []models.Domain{models.DomainGrades}}, nil)
	svc.Start(context.Background())

	require.Eventually(t, func() bool { return pipeline.callCount() >= 2 }, 2*time.Second, 10*time.Millisecond)
	svc.Stop()
}

func TestSyncServiceHistoryIsBounded(t *testing.T) {
	svc := NewSyncService(&pipelineStub{}, nil, SyncConfig{History: 2}, nil)
	for i := 0; i < 3; i++ {
		_, err := svc.RunNow(context.Background(), dto.SyncRequest{})
		require.NoError(t, err)
	}
	assert.Len(t, svc.List(), 2)
}

type blockingPipeline struct {
	pipelineStub
	release chan struct{}
	active  atomic.Int32
	peak    atomic.Int32
}

func (p *blockingPipeline) Run(ctx context.Context, domains []models.Domain, period models.Period) models.SyncRun {
	n := p.active.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	<-p.release
	p.active.Add(-1)
	return p.pipelineStub.Run(ctx, domains, period)
}

func TestSyncServiceRunNowWaitsForQueuedRun(t *testing.T) {
	pipeline := &blockingPipeline{release: make(chan struct{})}
	svc := NewSyncService(pipeline, nil, SyncConfig{}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	queued, err := svc.Enqueue(dto.SyncRequest{Domains: []string{"grades"}})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return pipeline.active.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	done := make(chan *models.SyncRun, 1)
	go func() {
		run, err := svc.RunNow(context.Background(), dto.SyncRequest{Domains: []string{"grades"}})
		assert.NoError(t, err)
		done <- run
	}()

	assert.Never(t, func() bool { return len(done) > 0 || pipeline.active.Load() > 1 }, 100*time.Millisecond, 10*time.Millisecond)
	close(pipeline.release)

	select {
	case run := <-done:
		require.NotNil(t, run)
		assert.Equal(t, models.SyncStatusCompleted, run.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("synchronous run never finished")
	}
	assert.Equal(t, int32(1), pipeline.peak.Load())
	require.Eventually(t, func() bool {
		run, err := svc.Get(queued.ID)
		return err == nil && run.Status == models.SyncStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncServiceRunNowGivesUpWhenContextEnds(t *testing.T) {
	pipeline := &pipelineStub{}
	svc := NewSyncService(pipeline, nil, SyncConfig{}, nil)
	svc.runSlot <- struct{}{}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.RunNow(ctx, dto.SyncRequest{})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Equal(t, 0, pipeline.callCount())
	assert.Empty(t, svc.List())
}
