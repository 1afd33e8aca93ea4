package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/studycoach-api/internal/config"
)

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
// This is the single source of truth for JWT test config.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

// NewTestJWTService creates a JWT service with an explicit secret, token
// lifetime, and clock. The injectable clock makes expiry behavior
// deterministic in tests.
func NewTestJWTService(
	secret string,
	tokenLifetime time.Duration,
	timeFunc func() time.Time,
) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        tokenLifetime,
		refreshTokenLifetime: 24 * tokenLifetime,
		timeFunc:             timeFunc,
		clockSkew:            0,
	}
}

// RequireTestJWTService creates a JWT service from the default test config
// and fails the test if construction fails.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	service, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return service
}

// GenerateTokenForTesting creates a JWT token for the specified user ID.
// This is a utility function for tests that need to create tokens without
// having to instantiate a JWT service.
func GenerateTokenForTesting(userID uuid.UUID) (string, error) {
	svc, err := NewJWTService(DefaultJWTConfig())
	if err != nil {
		return "", fmt.Errorf("failed to create JWT service: %w", err)
	}
	return svc.GenerateToken(context.Background(), userID)
}

// GenerateAuthHeaderForTesting creates an Authorization header value with Bearer prefix
// containing a valid JWT token for the specified user ID.
func GenerateAuthHeaderForTesting(userID uuid.UUID) (string, error) {
	token, err := GenerateTokenForTesting(userID)
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}

// GenerateAuthHeaderForTestingT is a test helper that creates an Authorization header
// and fails the test if token generation fails.
func GenerateAuthHeaderForTestingT(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	header, err := GenerateAuthHeaderForTesting(userID)
	require.NoError(t, err, "Failed to generate auth header")
	return header
}
