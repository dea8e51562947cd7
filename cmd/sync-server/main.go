package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/librus-sync/api/swagger"
	"github.com/noah-isme/librus-sync/internal/bootstrap"
	"github.com/noah-isme/librus-sync/internal/handler"
	"github.com/noah-isme/librus-sync/internal/middleware"
	"github.com/noah-isme/librus-sync/internal/models"
	"github.com/noah-isme/librus-sync/internal/service"
	"github.com/noah-isme/librus-sync/pkg/config"
	"github.com/noah-isme/librus-sync/pkg/logger"
	corsmiddleware "github.com/noah-isme/librus-sync/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/librus-sync/pkg/middleware/requestid"
	"github.com/noah-isme/librus-sync/pkg/storage"
)

// @title librus-sync API
// @version 1.0.0
// @description Snapshots, diffs and exports of Librus Synergia records
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const exportCleanupInterval = 15 * time.Minute

func main() {
	issue := flag.String("issue-token", "", "print an OPERATOR token for the given client id and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	authService := service.NewAuthService(logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})
	if *issue != "" {
		token, expiresAt, err := authService.IssueToken(*issue, models.RoleOperator)
		if err != nil {
			logr.Fatal("issue token", zap.Error(err))
		}
		fmt.Printf("%s\nexpires %s\n", token, expiresAt.Format(time.RFC3339))
		return
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := bootstrap.OpenStore(cfg, logr)
	if err != nil {
		logr.Fatal("open snapshot store", zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	fetcher, err := bootstrap.NewFetcher(cfg, logr)
	if err != nil {
		logr.Fatal("init portal fetcher", zap.Error(err))
	}

	domains, err := bootstrap.SyncDomains(cfg.Sync.Domains)
	if err != nil {
		logr.Fatal("invalid SYNC_DOMAINS", zap.Error(err))
	}

	exportFiles, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("open exports dir", zap.Error(err))
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()
	pipelineService := service.NewPipelineService(fetcher, store, metricsService, logr)
	syncService := service.NewSyncService(pipelineService, validate, service.SyncConfig{
		Domains:    domains,
		Interval:   cfg.Sync.Interval,
		Retries:    cfg.Sync.Retries,
		RetryDelay: cfg.Sync.RetryDelay,
	}, logr)
	snapshotService := service.NewSnapshotService(store, logr)
	exportService := service.NewExportService(
		snapshotService,
		exportFiles,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
		logr,
	)

	checks := map[string]handler.ReadinessCheck{}
	if store.Ping != nil {
		checks[store.Backend] = store.Ping
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	handler.Router{
		Sync:      handler.NewSyncHandler(syncService, logr),
		Snapshots: handler.NewSnapshotHandler(snapshotService, validate),
		Exports:   handler.NewExportHandler(exportService, validate, logr),
		Auth:      handler.NewAuthHandler(authService, validate),
		Metrics:   handler.NewMetricsHandler(metricsService, checks),
		JWT:       middleware.JWT(authService),
	}.Register(r, cfg.APIPrefix)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncService.Start(ctx)
	go cleanupExports(ctx, exportService, cfg.Exports.SignedURLTTL, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "snapshots", store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("http shutdown", zap.Error(err))
	}
	syncService.Stop()
}

func cleanupExports(ctx context.Context, exports *service.ExportService, ttl time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(exportCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := exports.Cleanup(ttl)
			if err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				logr.Info("expired exports removed", zap.Int("count", len(removed)))
			}
		}
	}
}
