package models

import "github.com/golang-jwt/jwt/v5"

// ClientRole limits what an API client may do.
type ClientRole string

const (
	// RoleReader may read snapshots, averages and exports.
	RoleReader ClientRole = "READER"
	// RoleOperator may additionally trigger syncs.
	RoleOperator ClientRole = "OPERATOR"
)

// JWTClaims represents the JWT payload for API access tokens.
type JWTClaims struct {
	ClientID string     `json:"client_id"`
	Role     ClientRole `json:"role"`
	jwt.RegisteredClaims
}

// CanSync reports whether the client may trigger a sync.
func (c *JWTClaims) CanSync() bool {
	return c != nil && c.Role == RoleOperator
}
