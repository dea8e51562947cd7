package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

func newAuthServiceForTest() *AuthService {
	return NewAuthService(zap.NewNop(), AuthConfig{Secret: "secret", Issuer: "librus-sync", Expiry: time.Hour})
}

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := newAuthServiceForTest()

	token, expiresAt, err := svc.IssueToken("cron", models.RoleOperator)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cron", claims.ClientID)
	assert.True(t, claims.CanSync())
}

func TestAuthServiceIssueTokenValidation(t *testing.T) {
	svc := newAuthServiceForTest()

	_, _, err := svc.IssueToken("", models.RoleReader)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, _, err = svc.IssueToken("cron", "ADMIN")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc := newAuthServiceForTest()
	token, _, err := svc.IssueToken("dashboard", models.RoleReader)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceRejectsForeignTokens(t *testing.T) {
	svc := newAuthServiceForTest()

	other := NewAuthService(nil, AuthConfig{Secret: "other", Issuer: "librus-sync"})
	token, _, err := other.IssueToken("dashboard", models.RoleReader)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &models.JWTClaims{ClientID: "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(none)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
