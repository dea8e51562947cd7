package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/dto"
	"github.com/noah-isme/librus-sync/internal/models"
	"github.com/noah-isme/librus-sync/pkg/response"
)

type syncService interface {
	Enqueue(req dto.SyncRequest) (*models.SyncRun, error)
	RunNow(ctx context.Context, req dto.SyncRequest) (*models.SyncRun, error)
	Get(id string) (*models.SyncRun, error)
	List() []models.SyncRun
}

// SyncHandler triggers and inspects pipeline runs.
type SyncHandler struct {
	sync   syncService
	logger *zap.Logger
}

// NewSyncHandler constructs a SyncHandler.
func NewSyncHandler(sync syncService, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{sync: sync, logger: logger}
}

// Enqueue godoc
// @Summary Queue a background sync
// @Tags Sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SyncRequest false "Domains and month"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sync [post]
func (h *SyncHandler) Enqueue(c *gin.Context) {
	var req dto.SyncRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	run, err := h.sync.Enqueue(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("sync queued", zap.String("id", run.ID), zap.String("client_id", clientID(c)))
	response.Accepted(c, dto.SyncJobResponse{ID: run.ID, Status: run.Status})
}

// Run godoc
// @Summary Run a sync and wait for the result
// @Tags Sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SyncRequest false "Domains and month"
// @Success 200 {object} response.Envelope
// @Router /sync/run [post]
func (h *SyncHandler) Run(c *gin.Context) {
	var req dto.SyncRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	run, err := h.sync.RunNow(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("sync run finished", zap.String("id", run.ID), zap.String("status", string(run.Status)), zap.String("client_id", clientID(c)))
	response.JSON(c, http.StatusOK, run, map[string]interface{}{"display": run.Display()})
}

// Get godoc
// @Summary Sync run status
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sync/{id} [get]
func (h *SyncHandler) Get(c *gin.Context) {
	run, err := h.sync.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run)
}

// List godoc
// @Summary Recent sync runs
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /sync [get]
func (h *SyncHandler) List(c *gin.Context) {
	runs := h.sync.List()
	response.JSON(c, http.StatusOK, runs, map[string]interface{}{"count": len(runs)})
}
