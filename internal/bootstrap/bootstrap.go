// Package bootstrap builds the snapshot store and page fetcher selected by configuration.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/models"
	"github.com/noah-isme/librus-sync/internal/portal"
	"github.com/noah-isme/librus-sync/internal/repository"
	"github.com/noah-isme/librus-sync/pkg/cache"
	"github.com/noah-isme/librus-sync/pkg/config"
	"github.com/noah-isme/librus-sync/pkg/database"
	"github.com/noah-isme/librus-sync/pkg/storage"
)

// SnapshotStore persists snapshots between runs.
type SnapshotStore interface {
	Load(ctx context.Context, name string) (*models.Snapshot, error)
	Save(ctx context.Context, snapshot *models.Snapshot) error
}

// PageFetcher returns the raw markup of a domain page.
type PageFetcher interface {
	Fetch(ctx context.Context, domain models.Domain, period models.Period) (string, error)
}

// Store is an opened snapshot backend.
type Store struct {
	SnapshotStore
	Backend string
	// Ping reports backend health; nil for backends without a connection.
	Ping  func(ctx context.Context) error
	Close func() error
}

// OpenStore opens the backend named by cfg.Snapshots.Backend.
func OpenStore(cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	switch cfg.Snapshots.Backend {
	case "", config.SnapshotBackendFile:
		files, err := storage.NewLocalStorage(cfg.Snapshots.Dir)
		if err != nil {
			return nil, fmt.Errorf("open snapshot dir: %w", err)
		}
		return &Store{
			SnapshotStore: repository.NewFileSnapshotRepository(files),
			Backend:       config.SnapshotBackendFile,
			Close:         noop,
		}, nil

	case config.SnapshotBackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Database.RunMigrations {
			if err := database.RunMigrations(db.DB, logger); err != nil {
				db.Close() //nolint:errcheck
				return nil, err
			}
		}
		return &Store{
			SnapshotStore: repository.NewPostgresSnapshotRepository(db),
			Backend:       config.SnapshotBackendPostgres,
			Ping:          db.PingContext,
			Close:         db.Close,
		}, nil

	case config.SnapshotBackendRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Store{
			SnapshotStore: repository.NewRedisSnapshotRepository(client, cfg.Snapshots.KeyPrefix, cfg.Snapshots.TTL, logger),
			Backend:       config.SnapshotBackendRedis,
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			Close: client.Close,
		}, nil

	case config.SnapshotBackendS3:
		objects, err := storage.NewS3Storage(cfg.S3)
		if err != nil {
			return nil, err
		}
		return &Store{
			SnapshotStore: repository.NewObjectSnapshotRepository(objects, cfg.Snapshots.KeyPrefix),
			Backend:       config.SnapshotBackendS3,
			Close:         noop,
		}, nil
	}

	return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshots.Backend)
}

// NewFetcher reads saved pages when PORTAL_SOURCE_DIR is set and logs into the portal otherwise.
func NewFetcher(cfg *config.Config, logger *zap.Logger) (PageFetcher, error) {
	if cfg.Portal.SourceDir != "" {
		fetcher, err := portal.NewDirFetcher(cfg.Portal.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("open saved pages: %w", err)
		}
		return fetcher, nil
	}
	client, err := portal.NewClient(cfg.Portal, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// SyncDomains converts configured domain names, rejecting unknown ones.
func SyncDomains(names []string) ([]models.Domain, error) {
	domains := make([]models.Domain, 0, len(names))
	for _, name := range names {
		domain, ok := models.ParseDomain(name)
		if !ok {
			return nil, fmt.Errorf("unknown sync domain %q", name)
		}
		domains = append(domains, domain)
	}
	return domains, nil
}
