package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/librus-sync/internal/dto"
	"github.com/noah-isme/librus-sync/internal/middleware"
	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

type syncStub struct {
	lastRequest dto.SyncRequest
	enqueueErr  error
}

func (s *syncStub) Enqueue(req dto.SyncRequest) (*models.SyncRun, error) {
	s.lastRequest = req
	if s.enqueueErr != nil {
		return nil, s.enqueueErr
	}
	return &models.SyncRun{ID: "run-1", Status: models.SyncStatusQueued}, nil
}

func (s *syncStub) RunNow(_ context.Context, req dto.SyncRequest) (*models.SyncRun, error) {
	s.lastRequest = req
	return &models.SyncRun{ID: "run-2", Status: models.SyncStatusCompleted, Domains: []models.DomainResult{
		{Domain: models.DomainGrades, New: 1, Display: "[2019-09-20, pt.] - <Matematyka> (5)\n"},
	}}, nil
}

func (s *syncStub) Get(id string) (*models.SyncRun, error) {
	if id != "run-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "sync run not found")
	}
	return &models.SyncRun{ID: id, Status: models.SyncStatusRunning}, nil
}

func (s *syncStub) List() []models.SyncRun {
	return []models.SyncRun{{ID: "run-1"}}
}

type snapshotStub struct {
	lastDomain models.Domain
	lastPeriod models.Period
	lastSort   string
}

func (s *snapshotStub) View(_ context.Context, domain models.Domain, period models.Period, sortBy string, _ bool) (*models.SnapshotView, error) {
	s.lastDomain, s.lastPeriod, s.lastSort = domain, period, sortBy
	if domain == models.DomainAttendance {
		return nil, appErrors.Clone(appErrors.ErrSnapshotNotFound, "attendance")
	}
	return &models.SnapshotView{Name: string(domain), Domain: domain, Count: 1, Display: "record\n"}, nil
}

func (s *snapshotStub) Subjects(context.Context) ([]string, error) {
	return []string{"Matematyka", "Fizyka"}, nil
}

func (s *snapshotStub) Average(_ context.Context, subject string) (*models.SubjectAverage, error) {
	if subject != "Matematyka" {
		return nil, appErrors.Clone(appErrors.ErrSubjectNotFound, "")
	}
	return &models.SubjectAverage{Subject: subject, Average: 4, Grades: 2}, nil
}

type exportStub struct {
	dir string
}

func (e *exportStub) Generate(_ context.Context, domain models.Domain, _ models.Period, format models.ExportFormat) (*models.ExportResult, error) {
	if format == models.ExportFormatICS && domain != models.DomainEvents {
		return nil, appErrors.ErrUnsupportedFormat
	}
	return &models.ExportResult{ID: "exp-1", Domain: domain, Format: format, Token: "good", URL: "/api/v1/exports/good"}, nil
}

func (e *exportStub) ParseToken(token string, _ bool) (string, string, time.Time, error) {
	if token != "good" {
		return "", "", time.Time{}, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download token")
	}
	return "exp-1", "grades.csv", time.Now().Add(time.Hour), nil
}

func (e *exportStub) Open(relPath string) (*os.File, error) {
	return os.Open(filepath.Join(e.dir, relPath))
}

type issuerStub struct{}

func (issuerStub) IssueToken(clientID string, role models.ClientRole) (string, time.Time, error) {
	return "token-" + clientID + "-" + string(role), time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC), nil
}

type claimsStub struct{}

func (claimsStub) ValidateToken(token string) (*models.JWTClaims, error) {
	switch token {
	case "reader":
		return &models.JWTClaims{ClientID: "dashboard", Role: models.RoleReader}, nil
	case "operator":
		return &models.JWTClaims{ClientID: "cron", Role: models.RoleOperator}, nil
	}
	return nil, appErrors.ErrUnauthorized
}

type metricsStub struct{}

func (metricsStub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("librus_sync_runs_total 1\n"))
	})
}

func (metricsStub) Snapshot() models.SyncMetrics {
	return models.SyncMetrics{Runs: 3}
}

type fixture struct {
	engine    *gin.Engine
	sync      *syncStub
	snapshots *snapshotStub
}

func newFixture(t *testing.T, checks map[string]ReadinessCheck) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grades.csv"), []byte("Id;Ocena\n1;5\n"), 0o644))

	syncSvc := &syncStub{}
	snapshots := &snapshotStub{}
	engine := gin.New()
	Router{
		Sync:      NewSyncHandler(syncSvc, nil),
		Snapshots: NewSnapshotHandler(snapshots, nil),
		Exports:   NewExportHandler(&exportStub{dir: dir}, nil, nil),
		Auth:      NewAuthHandler(issuerStub{}, nil),
		Metrics:   NewMetricsHandler(metricsStub{}, checks),
		JWT:       middleware.JWT(claimsStub{}),
	}.Register(engine, "/api/v1")
	return fixture{engine: engine, sync: syncSvc, snapshots: snapshots}
}

func (f fixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSyncEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/sync", "reader", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPost, "/api/v1/sync", "operator", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "run-1", data["id"])
	assert.Equal(t, "QUEUED", data["status"])

	w = f.do(http.MethodPost, "/api/v1/sync/run", "operator", dto.SyncRequest{Domains: []string{"grades"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"grades"}, f.sync.lastRequest.Domains)
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.Contains(t, meta["display"], "<Matematyka>")

	w = f.do(http.MethodGet, "/api/v1/sync/run-1", "reader", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodGet, "/api/v1/sync/nope", "reader", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(http.MethodGet, "/api/v1/sync", "reader", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSyncEnqueueQueueFull(t *testing.T) {
	f := newFixture(t, nil)
	f.sync.enqueueErr = appErrors.Clone(appErrors.ErrConflict, "sync queue is full")

	w := f.do(http.MethodPost, "/api/v1/sync", "operator", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSyncRejectsMalformedJSON(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer operator")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSnapshotEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/api/v1/snapshots/grades?sort=weight&reverse=true", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodGet, "/api/v1/snapshots/grades?sort=weight&reverse=true", "reader", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "weight", f.snapshots.lastSort)

	w = f.do(http.MethodGet, "/api/v1/snapshots/events?year=2019&month=9", "reader", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Period{Year: 2019, Month: 9}, f.snapshots.lastPeriod)

	w = f.do(http.MethodGet, "/api/v1/snapshots/grades?sort=color", "reader", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/snapshots/timetable", "reader", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/snapshots/attendance", "reader", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/v1/snapshots/announcements/display", "reader", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "record\n", w.Body.String())
}

func TestGradeEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/api/v1/grades/subjects", "reader", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeEnvelope(t, w)["data"], 2)

	w = f.do(http.MethodGet, "/api/v1/grades/average?subject=Matematyka", "reader", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 4.0, data["average"])

	w = f.do(http.MethodGet, "/api/v1/grades/average", "reader", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/grades/average?subject=Chemia", "reader", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/exports", "reader", dto.ExportRequest{Domain: "grades", Format: "csv"})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "/api/v1/exports/good", data["url"])

	w = f.do(http.MethodPost, "/api/v1/exports", "reader", dto.ExportRequest{Domain: "grades", Format: "docx"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/v1/exports", "reader", dto.ExportRequest{Domain: "grades", Format: "ics"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/exports/good", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Id;Ocena\n1;5\n", w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="grades.csv"`)

	w = f.do(http.MethodGet, "/api/v1/exports/forged", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssueTokenEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/auth/token", "reader", dto.TokenRequest{ClientID: "dash", Role: "READER"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPost, "/api/v1/auth/token", "operator", dto.TokenRequest{ClientID: "dash", Role: "READER"})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "token-dash-READER", data["access_token"])

	w = f.do(http.MethodPost, "/api/v1/auth/token", "operator", dto.TokenRequest{ClientID: "dash", Role: "ADMIN"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProbesAndMetrics(t *testing.T) {
	f := newFixture(t, map[string]ReadinessCheck{
		"snapshots": func(context.Context) error { return nil },
	})
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/ready", "", nil).Code)

	w := f.do(http.MethodGet, "/metrics", "", nil)
	assert.Contains(t, w.Body.String(), "librus_sync_runs_total")

	w = f.do(http.MethodGet, "/api/v1/metrics/sync", "reader", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decodeEnvelope(t, w)["data"].(map[string]interface{})["runs"])

	failing := newFixture(t, map[string]ReadinessCheck{
		"database": func(context.Context) error { return errors.New("connection refused") },
	})
	w = failing.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
