package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
	"github.com/noah-isme/librus-sync/pkg/response"
)

// RequireRoles lets the request through only for clients holding one of the roles.
// It must run after JWT.
func RequireRoles(roles ...models.ClientRole) gin.HandlerFunc {
	allowed := make(map[models.ClientRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		value, exists := c.Get(ContextClientKey)
		claims, ok := value.(*models.JWTClaims)
		if !exists || !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
