package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/librus-sync/internal/middleware"
	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextClientKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func clientID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.ClientID
	}
	return ""
}

// bindOptionalJSON accepts an empty body as the zero payload.
func bindOptionalJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON payload")
	}
	return nil
}
