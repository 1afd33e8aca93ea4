package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret      = "test-secret-that-is-long-enough-for-testing"
	testWrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

var testIssuedAt = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// fixedClockService returns a service whose clock is pinned to the given
// instant, so expiry behavior is deterministic.
func fixedClockService(secret string, lifetime time.Duration, at time.Time) JWTService {
	return NewTestJWTService(secret, lifetime, func() time.Time {
		return at
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	tokenLifetime := 60 * time.Minute
	userID := uuid.New()
	svc := fixedClockService(testSecret, tokenLifetime, testIssuedAt)

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	// Compare Unix timestamps to avoid timezone issues
	assert.Equal(t, testIssuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, testIssuedAt.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	testCases := []struct {
		name    string
		setup   func(t *testing.T) (JWTService, string)
		wantErr error
	}{
		{
			name: "valid token",
			setup: func(t *testing.T) (JWTService, string) {
				svc := fixedClockService(testSecret, tokenLifetime, testIssuedAt)
				token, err := svc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return svc, token
			},
		},
		{
			name: "expired token",
			setup: func(t *testing.T) (JWTService, string) {
				genSvc := fixedClockService(testSecret, tokenLifetime, testIssuedAt)
				token, err := genSvc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)

				// Validate well after the lifetime has elapsed.
				valSvc := fixedClockService(testSecret, tokenLifetime,
					testIssuedAt.Add(tokenLifetime+time.Hour))
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setup: func(t *testing.T) (JWTService, string) {
				genSvc := fixedClockService(testSecret, tokenLifetime, testIssuedAt)
				token, err := genSvc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)

				valSvc := fixedClockService(testWrongSecret, tokenLifetime, testIssuedAt)
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setup: func(t *testing.T) (JWTService, string) {
				return fixedClockService(testSecret, tokenLifetime, testIssuedAt),
					"this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token rejected as access token",
			setup: func(t *testing.T) (JWTService, string) {
				svc := fixedClockService(testSecret, tokenLifetime, testIssuedAt)
				token, err := svc.GenerateRefreshToken(context.Background(), userID)
				require.NoError(t, err)
				return svc, token
			},
			wantErr: ErrWrongTokenType,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tc.setup(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, claims)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	t.Run("valid refresh token", func(t *testing.T) {
		t.Parallel()
		svc := fixedClockService(testSecret, tokenLifetime, testIssuedAt)
		token, err := svc.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		t.Parallel()
		genSvc := fixedClockService(testSecret, tokenLifetime, testIssuedAt)
		token, err := genSvc.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		// NewTestJWTService gives refresh tokens 24x the access lifetime.
		valSvc := fixedClockService(testSecret, tokenLifetime,
			testIssuedAt.Add(25*tokenLifetime))
		claims, err := valSvc.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
		assert.Nil(t, claims)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		t.Parallel()
		svc := fixedClockService(testSecret, tokenLifetime, testIssuedAt)
		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
		assert.Nil(t, claims)
	})
}
