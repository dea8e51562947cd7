package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Snapshot backends understood by the store factory.
const (
	SnapshotBackendFile     = "file"
	SnapshotBackendPostgres = "postgres"
	SnapshotBackendRedis    = "redis"
	SnapshotBackendS3       = "s3"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Portal    PortalConfig
	Snapshots SnapshotConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	S3        S3Config
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Sync      SyncConfig
	Exports   ExportsConfig
}

// PortalConfig points the fetcher at the school portal or at a directory of saved pages.
type PortalConfig struct {
	BaseURL   string
	Login     string
	Password  string
	Timeout   time.Duration
	SourceDir string
}

// SnapshotConfig selects where snapshots between runs are kept.
type SnapshotConfig struct {
	Backend   string
	Dir       string
	KeyPrefix string
	TTL       time.Duration
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	RunMigrations bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// S3Config configures the object storage snapshot backend.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SyncConfig controls which domains are synced and how often the server triggers a run.
type SyncConfig struct {
	Domains    []string
	Interval   time.Duration
	Retries    int
	RetryDelay time.Duration
}

// ExportsConfig configures rendered snapshot exports.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Portal = PortalConfig{
		BaseURL:   strings.TrimRight(v.GetString("PORTAL_BASE_URL"), "/"),
		Login:     v.GetString("PORTAL_LOGIN"),
		Password:  v.GetString("PORTAL_PASSWORD"),
		Timeout:   parseDuration(v.GetString("PORTAL_TIMEOUT"), 30*time.Second),
		SourceDir: v.GetString("PORTAL_SOURCE_DIR"),
	}

	cfg.Snapshots = SnapshotConfig{
		Backend:   strings.ToLower(v.GetString("SNAPSHOT_BACKEND")),
		Dir:       v.GetString("SNAPSHOT_DIR"),
		KeyPrefix: v.GetString("SNAPSHOT_KEY_PREFIX"),
		TTL:       parseDuration(v.GetString("SNAPSHOT_TTL"), 0),
	}

	cfg.Database = DatabaseConfig{
		Host:          v.GetString("DB_HOST"),
		Port:          v.GetInt("DB_PORT"),
		User:          v.GetString("DB_USER"),
		Password:      v.GetString("DB_PASSWORD"),
		Name:          v.GetString("DB_NAME"),
		SSLMode:       v.GetString("DB_SSL_MODE"),
		MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		RunMigrations: v.GetBool("DB_RUN_MIGRATIONS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.S3 = S3Config{
		Endpoint:  v.GetString("S3_ENDPOINT"),
		Region:    v.GetString("S3_REGION"),
		Bucket:    v.GetString("S3_BUCKET"),
		AccessKey: v.GetString("S3_ACCESS_KEY"),
		SecretKey: v.GetString("S3_SECRET_KEY"),
		UseSSL:    v.GetBool("S3_USE_SSL"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sync = SyncConfig{
		Domains:    splitAndTrim(v.GetString("SYNC_DOMAINS")),
		Interval:   parseDuration(v.GetString("SYNC_INTERVAL"), 0),
		Retries:    v.GetInt("SYNC_RETRIES"),
		RetryDelay: parseDuration(v.GetString("SYNC_RETRY_DELAY"), 30*time.Second),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("PORTAL_BASE_URL", "https://synergia.librus.pl")
	v.SetDefault("PORTAL_LOGIN", "")
	v.SetDefault("PORTAL_PASSWORD", "")
	v.SetDefault("PORTAL_TIMEOUT", "30s")
	v.SetDefault("PORTAL_SOURCE_DIR", "")

	v.SetDefault("SNAPSHOT_BACKEND", SnapshotBackendFile)
	v.SetDefault("SNAPSHOT_DIR", "./snapshots")
	v.SetDefault("SNAPSHOT_KEY_PREFIX", "librus:snapshot:")
	v.SetDefault("SNAPSHOT_TTL", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "librus_sync")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_RUN_MIGRATIONS", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_REGION", "eu-central-1")
	v.SetDefault("S3_BUCKET", "librus-snapshots")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_USE_SSL", true)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "librus-sync")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SYNC_DOMAINS", "grades,events,announcements,attendance")
	v.SetDefault("SYNC_INTERVAL", "")
	v.SetDefault("SYNC_RETRIES", 0)
	v.SetDefault("SYNC_RETRY_DELAY", "30s")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
