package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/librus-sync/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the sync pipeline.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	syncDuration     prometheus.Histogram
	syncRuns         *prometheus.CounterVec
	recordsExtracted *prometheus.CounterVec
	newRecords       *prometheus.CounterVec
	domainFailures   *prometheus.CounterVec

	runCount     uint64
	failureCount uint64
	mu           sync.Mutex
	newByDomain  map[models.Domain]uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	syncDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "librus_sync_run_duration_seconds",
		Help:    "Duration of complete sync runs",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	syncRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "librus_sync_runs_total",
		Help: "Sync runs by final status",
	}, []string{"status"})

	recordsExtracted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "librus_records_extracted_total",
		Help: "Records extracted from portal pages",
	}, []string{"domain"})

	newRecords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "librus_new_records_total",
		Help: "Records absent from the previous snapshot",
	}, []string{"domain"})

	domainFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "librus_domain_failures_total",
		Help: "Domains that failed during a sync run",
	}, []string{"domain"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, syncDuration, syncRuns, recordsExtracted, newRecords, domainFailures, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		syncDuration:     syncDuration,
		syncRuns:         syncRuns,
		recordsExtracted: recordsExtracted,
		newRecords:       newRecords,
		domainFailures:   domainFailures,
		newByDomain:      make(map[models.Domain]uint64),
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveDomain records the counters of one finished domain.
func (m *MetricsService) ObserveDomain(result models.DomainResult) {
	if m == nil {
		return
	}
	label := string(result.Domain)
	if result.Failed() {
		m.domainFailures.WithLabelValues(label).Inc()
		atomic.AddUint64(&m.failureCount, 1)
		return
	}
	m.recordsExtracted.WithLabelValues(label).Add(float64(result.Extracted))
	m.newRecords.WithLabelValues(label).Add(float64(result.New + result.Modified))

	m.mu.Lock()
	m.newByDomain[result.Domain] += uint64(result.New + result.Modified)
	m.mu.Unlock()
}

// ObserveRun records a finished run.
func (m *MetricsService) ObserveRun(status models.SyncStatus, duration time.Duration) {
	if m == nil {
		return
	}
	m.syncRuns.WithLabelValues(string(status)).Inc()
	m.syncDuration.Observe(duration.Seconds())
	atomic.AddUint64(&m.runCount, 1)
}

// Snapshot returns aggregated pipeline counters.
func (m *MetricsService) Snapshot() models.SyncMetrics {
	if m == nil {
		return models.SyncMetrics{}
	}
	m.mu.Lock()
	byDomain := make(map[models.Domain]uint64, len(m.newByDomain))
	for d, n := range m.newByDomain {
		byDomain[d] = n
	}
	m.mu.Unlock()

	return models.SyncMetrics{
		Runs:           atomic.LoadUint64(&m.runCount),
		DomainFailures: atomic.LoadUint64(&m.failureCount),
		NewRecords:     byDomain,
		GeneratedAt:    time.Now().UTC(),
	}
}
