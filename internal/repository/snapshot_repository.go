package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
	"github.com/noah-isme/librus-sync/pkg/storage"
)

func snapshotNotFound(name string) error {
	return appErrors.Clone(appErrors.ErrSnapshotNotFound, fmt.Sprintf("snapshot %s not found", name))
}

func encodeSnapshot(snapshot *models.Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", snapshot.Name, err)
	}
	return payload, nil
}

func decodeSnapshot(name string, payload []byte) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return &snapshot, nil
}

// FileSnapshotRepository keeps one JSON document per snapshot name on local disk.
type FileSnapshotRepository struct {
	files *storage.LocalStorage
}

// NewFileSnapshotRepository constructs the repository.
func NewFileSnapshotRepository(files *storage.LocalStorage) *FileSnapshotRepository {
	return &FileSnapshotRepository{files: files}
}

// Load returns the snapshot or ErrSnapshotNotFound.
func (r *FileSnapshotRepository) Load(_ context.Context, name string) (*models.Snapshot, error) {
	payload, err := r.files.Read(name + ".json")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, snapshotNotFound(name)
		}
		return nil, err
	}
	return decodeSnapshot(name, payload)
}

// Save replaces the snapshot file.
func (r *FileSnapshotRepository) Save(_ context.Context, snapshot *models.Snapshot) error {
	payload, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if _, err := r.files.Save(snapshot.Name+".json", payload); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snapshot.Name, err)
	}
	return nil
}

// PostgresSnapshotRepository keeps snapshots in the snapshots table.
type PostgresSnapshotRepository struct {
	db *sqlx.DB
}

// NewPostgresSnapshotRepository constructs the repository.
func NewPostgresSnapshotRepository(db *sqlx.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Load fetches a snapshot by name.
func (r *PostgresSnapshotRepository) Load(ctx context.Context, name string) (*models.Snapshot, error) {
	const query = `SELECT name, domain, version, records, saved_at FROM snapshots WHERE name = $1`
	var snapshot models.Snapshot
	if err := r.db.GetContext(ctx, &snapshot, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, snapshotNotFound(name)
		}
		return nil, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	return &snapshot, nil
}

// Save upserts the snapshot.
func (r *PostgresSnapshotRepository) Save(ctx context.Context, snapshot *models.Snapshot) error {
	const query = `INSERT INTO snapshots (name, domain, version, records, saved_at)
VALUES (:name, :domain, :version, :records, :saved_at)
ON CONFLICT (name)
DO UPDATE SET domain = EXCLUDED.domain, version = EXCLUDED.version, records = EXCLUDED.records,
              saved_at = EXCLUDED.saved_at`
	if snapshot.SavedAt.IsZero() {
		snapshot.SavedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, query, snapshot); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snapshot.Name, err)
	}
	return nil
}

// RedisSnapshotRepository keeps snapshots as JSON strings under a key prefix.
type RedisSnapshotRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSnapshotRepository constructs the repository. A zero ttl keeps snapshots forever.
func NewRedisSnapshotRepository(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *RedisSnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSnapshotRepository{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

func (r *RedisSnapshotRepository) key(name string) string {
	return r.prefix + name
}

// Load retrieves the snapshot stored under the prefixed name.
func (r *RedisSnapshotRepository) Load(ctx context.Context, name string) (*models.Snapshot, error) {
	raw, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, snapshotNotFound(name)
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key(name), err)
	}
	return decodeSnapshot(name, raw)
}

// Save stores the snapshot with the configured TTL.
func (r *RedisSnapshotRepository) Save(ctx context.Context, snapshot *models.Snapshot) error {
	payload, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(snapshot.Name), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key(snapshot.Name), err)
	}
	r.logger.Debug("snapshot stored in redis", zap.String("key", r.key(snapshot.Name)), zap.Int("bytes", len(payload)))
	return nil
}

type objectStorage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// ObjectSnapshotRepository keeps snapshots as objects in an S3 bucket.
type ObjectSnapshotRepository struct {
	objects objectStorage
	prefix  string
}

// NewObjectSnapshotRepository constructs the repository.
func NewObjectSnapshotRepository(objects objectStorage, prefix string) *ObjectSnapshotRepository {
	return &ObjectSnapshotRepository{objects: objects, prefix: prefix}
}

func (r *ObjectSnapshotRepository) key(name string) string {
	return r.prefix + name + ".json"
}

// Load downloads and decodes the snapshot object.
func (r *ObjectSnapshotRepository) Load(ctx context.Context, name string) (*models.Snapshot, error) {
	body, err := r.objects.Download(ctx, r.key(name))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, snapshotNotFound(name)
		}
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	payload, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return decodeSnapshot(name, payload)
}

// Save uploads the snapshot object, replacing any previous version.
func (r *ObjectSnapshotRepository) Save(ctx context.Context, snapshot *models.Snapshot) error {
	payload, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	return r.objects.Upload(ctx, r.key(snapshot.Name), payload)
}
