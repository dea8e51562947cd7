package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/librus-sync/internal/middleware"
	"github.com/noah-isme/librus-sync/internal/models"
)

// Router wires the handlers onto a gin engine.
type Router struct {
	Sync      *SyncHandler
	Snapshots *SnapshotHandler
	Exports   *ExportHandler
	Auth      *AuthHandler
	Metrics   *MetricsHandler
	// JWT authenticates every route under the API prefix except signed downloads.
	JWT gin.HandlerFunc
}

// Register mounts probes at the root and the API under prefix.
func (rt Router) Register(r *gin.Engine, prefix string) {
	r.GET("/health", rt.Metrics.Health)
	r.GET("/ready", rt.Metrics.Ready)
	r.GET("/metrics", rt.Metrics.Prometheus)

	api := r.Group(prefix)
	api.GET("/exports/:token", rt.Exports.Download)

	secured := api.Group("", rt.JWT)
	secured.GET("/snapshots/:domain", rt.Snapshots.Get)
	secured.GET("/snapshots/:domain/display", rt.Snapshots.Display)
	secured.GET("/grades/subjects", rt.Snapshots.Subjects)
	secured.GET("/grades/average", rt.Snapshots.Average)
	secured.POST("/exports", rt.Exports.Create)
	secured.GET("/sync", rt.Sync.List)
	secured.GET("/sync/:id", rt.Sync.Get)
	secured.GET("/metrics/sync", rt.Metrics.Summary)

	operator := secured.Group("", middleware.RequireRoles(models.RoleOperator))
	operator.POST("/sync", rt.Sync.Enqueue)
	operator.POST("/sync/run", rt.Sync.Run)
	operator.POST("/auth/token", rt.Auth.IssueToken)
}
