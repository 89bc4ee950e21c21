package service

import (
	"time"

	"academy/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by the API's access tokens.
type Claims struct {
	ProfileID uuid.UUID             `json:"profile_id"`
	Role      entity.Role           `json:"role,omitempty"`
	Status    entity.ApprovalStatus `json:"status,omitempty"`
	Type      string                `json:"type"` // "access" or "refresh".
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a
	// gated, enriched session.
	GenerateTokens(profileID uuid.UUID, role entity.Role, status entity.ApprovalStatus) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks an access token and returns its claims.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}
