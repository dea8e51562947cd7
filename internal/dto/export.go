package dto

// ExportRequest captures POST /exports payload.
type ExportRequest struct {
	Domain string `json:"domain" validate:"required,oneof=grades events announcements attendance"`
	Format string `json:"format" validate:"required,oneof=csv pdf xlsx ics"`
	Year   int    `json:"year" validate:"omitempty,min=2000,max=2100"`
	Month  int    `json:"month" validate:"omitempty,min=1,max=12"`
}

// TokenRequest captures POST /auth/token payload.
type TokenRequest struct {
	ClientID string `json:"client_id" validate:"required,max=64"`
	Role     string `json:"role" validate:"required,oneof=READER OPERATOR"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}
