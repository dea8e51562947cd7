package bootstrap

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/librus-sync/internal/models"
	"github.com/noah-isme/librus-sync/internal/portal"
	"github.com/noah-isme/librus-sync/pkg/config"
)

func TestOpenStoreFileBackendRoundTrip(t *testing.T) {
	cfg := &config.Config{Snapshots: config.SnapshotConfig{Backend: config.SnapshotBackendFile, Dir: t.TempDir()}}

	store, err := OpenStore(cfg, nil)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	assert.Equal(t, config.SnapshotBackendFile, store.Backend)
	assert.Nil(t, store.Ping)

	snapshot := &models.Snapshot{
		Name:    "grades",
		Domain:  models.DomainGrades,
		Version: models.SnapshotVersion,
		SavedAt: time.Date(2019, 9, 20, 8, 0, 0, 0, time.UTC),
		Records: json.RawMessage(`[]`),
	}
	require.NoError(t, store.Save(context.Background(), snapshot))

	loaded, err := store.Load(context.Background(), "grades")
	require.NoError(t, err)
	assert.Equal(t, models.DomainGrades, loaded.Domain)
}

func TestOpenStoreRejectsUnknownBackend(t *testing.T) {
	_, err := OpenStore(&config.Config{Snapshots: config.SnapshotConfig{Backend: "floppy"}}, nil)
	assert.ErrorContains(t, err, "floppy")
}

func TestNewFetcherPrefersSavedPages(t *testing.T) {
	cfg := &config.Config{Portal: config.PortalConfig{SourceDir: t.TempDir(), BaseURL: "https://example.test"}}
	fetcher, err := NewFetcher(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &portal.DirFetcher{}, fetcher)

	cfg.Portal.SourceDir = ""
	fetcher, err = NewFetcher(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &portal.Client{}, fetcher)
}

func TestSyncDomains(t *testing.T) {
	domains, err := SyncDomains([]string{"Grades", " events "})
	require.NoError(t, err)
	assert.Equal(t, []models.Domain{models.DomainGrades, models.DomainEvents}, domains)

	_, err = SyncDomains([]string{"homework"})
	assert.Error(t, err)
}
