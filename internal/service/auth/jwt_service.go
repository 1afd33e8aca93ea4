package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates the signed tokens that authenticate API
// requests. Access tokens are short-lived; refresh tokens outlive them and
// are exchanged at /api/auth/refresh for a new pair.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks an access token and extracts its claims.
	// Fails with a sentinel error when the token is expired, malformed,
	// carries a bad signature, or is not an access token.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the user.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken checks a refresh token and extracts its claims.
	// Fails with a sentinel error when the token is expired, malformed,
	// carries a bad signature, or is not a refresh token.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded content of a valid token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType is "access" or "refresh"; the validators reject a token
	// presented as the other kind.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
