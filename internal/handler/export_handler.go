package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/dto"
	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
	"github.com/noah-isme/librus-sync/pkg/response"
)

var exportContentTypes = map[string]string{
	".csv":  "text/csv; charset=utf-8",
	".pdf":  "application/pdf",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ics":  "text/calendar; charset=utf-8",
}

type exportService interface {
	Generate(ctx context.Context, domain models.Domain, period models.Period, format models.ExportFormat) (*models.ExportResult, error)
	ParseToken(token string, allowExpired bool) (string, string, time.Time, error)
	Open(relPath string) (*os.File, error)
}

// ExportHandler renders snapshots to files and serves signed downloads.
type ExportHandler struct {
	exports   exportService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exports exportService, validate *validator.Validate, logger *zap.Logger) *ExportHandler {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exports: exports, validator: validate, logger: logger, now: time.Now}
}

// Create godoc
// @Summary Export a snapshot
// @Tags Exports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ExportRequest true "Domain and format"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload"))
		return
	}
	domain := models.Domain(req.Domain)
	period := models.Period{Year: req.Year, Month: req.Month}
	if domain == models.DomainEvents && (period.Year == 0 || period.Month == 0) {
		period = models.PeriodOf(h.now())
	}

	result, err := h.exports.Generate(c.Request.Context(), domain, period, models.ExportFormat(req.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an export
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	id, relPath, _, err := h.exports.ParseToken(c.Param("token"), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Open(relPath)
	if err != nil {
		h.logger.Warn("export file missing", zap.String("id", id), zap.Error(err))
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export no longer available"))
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	contentType, ok := exportContentTypes[filepath.Ext(relPath)]
	if !ok {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(relPath)),
	})
}
