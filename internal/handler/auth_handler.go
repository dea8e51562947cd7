package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/librus-sync/internal/dto"
	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
	"github.com/noah-isme/librus-sync/pkg/response"
)

type tokenIssuer interface {
	IssueToken(clientID string, role models.ClientRole) (string, time.Time, error)
}

// AuthHandler lets operators mint tokens for other API clients.
type AuthHandler struct {
	auth      tokenIssuer
	validator *validator.Validate
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth tokenIssuer, validate *validator.Validate) *AuthHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AuthHandler{auth: auth, validator: validate}
}

// IssueToken godoc
// @Summary Issue an API token
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.TokenRequest true "Client and role"
// @Success 201 {object} response.Envelope
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid token payload"))
		return
	}
	token, expiresAt, err := h.auth.IssueToken(req.ClientID, models.ClientRole(req.Role))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.TokenResponse{AccessToken: token, ExpiresAt: expiresAt.UTC().Format(time.RFC3339)})
}
