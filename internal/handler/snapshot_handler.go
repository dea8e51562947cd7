package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/librus-sync/internal/dto"
	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
	"github.com/noah-isme/librus-sync/pkg/response"
)

type snapshotService interface {
	View(ctx context.Context, domain models.Domain, period models.Period, sortBy string, reverse bool) (*models.SnapshotView, error)
	Subjects(ctx context.Context) ([]string, error)
	Average(ctx context.Context, subject string) (*models.SubjectAverage, error)
}

// SnapshotHandler serves stored records, averages and subjects.
type SnapshotHandler struct {
	snapshots snapshotService
	validator *validator.Validate
	now       func() time.Time
}

// NewSnapshotHandler constructs a SnapshotHandler.
func NewSnapshotHandler(snapshots snapshotService, validate *validator.Validate) *SnapshotHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &SnapshotHandler{snapshots: snapshots, validator: validate, now: time.Now}
}

// Get godoc
// @Summary Stored records of a domain
// @Tags Snapshots
// @Produce json
// @Security BearerAuth
// @Param domain path string true "grades, events, announcements or attendance"
// @Param year query int false "Events year"
// @Param month query int false "Events month"
// @Param sort query string false "date, weight, grade or day"
// @Param reverse query bool false "Descending order"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /snapshots/{domain} [get]
func (h *SnapshotHandler) Get(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Display godoc
// @Summary Stored records of a domain as plain text
// @Tags Snapshots
// @Produce plain
// @Security BearerAuth
// @Param domain path string true "grades, events, announcements or attendance"
// @Success 200 {string} string
// @Router /snapshots/{domain}/display [get]
func (h *SnapshotHandler) Display(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, view.Display)
}

// Subjects godoc
// @Summary Subjects with grades
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /grades/subjects [get]
func (h *SnapshotHandler) Subjects(c *gin.Context) {
	subjects, err := h.snapshots.Subjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, map[string]interface{}{"count": len(subjects)})
}

// Average godoc
// @Summary Weighted average of a subject
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param subject query string true "Subject name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grades/average [get]
func (h *SnapshotHandler) Average(c *gin.Context) {
	var query dto.AverageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "subject required"))
		return
	}
	avg, err := h.snapshots.Average(c.Request.Context(), query.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, avg)
}

func (h *SnapshotHandler) view(c *gin.Context) (*models.SnapshotView, bool) {
	domain, ok := models.ParseDomain(c.Param("domain"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown domain %q", c.Param("domain"))))
		return nil, false
	}
	var query dto.SnapshotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return nil, false
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return nil, false
	}
	period := models.Period{Year: query.Year, Month: query.Month}
	if domain == models.DomainEvents && (period.Year == 0 || period.Month == 0) {
		period = models.PeriodOf(h.now())
	}
	view, err := h.snapshots.View(c.Request.Context(), domain, period, query.Sort, query.Reverse)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return view, true
}
