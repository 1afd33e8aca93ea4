package shared

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	assert.Empty(t, GetTraceID(ctx), "a fresh context carries no trace ID")

	ctxWithTrace := SetTraceID(ctx)
	traceID := GetTraceID(ctxWithTrace)
	assert.Len(t, traceID, 32, "trace ID should be 32 hex characters (16 bytes)")

	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err, "trace ID should be valid hex")

	// The parent context is untouched.
	assert.Empty(t, GetTraceID(ctx))
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), TraceIDKey, 123) // Not a string

	assert.Empty(t, GetTraceID(ctx), "non-string values read as empty")
}

func TestGenerateTraceIDUniqueness(t *testing.T) {
	t.Parallel()

	const iterations = 1000
	seen := make(map[string]bool, iterations)
	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		require.Len(t, id, 32)
		assert.False(t, seen[id], "trace IDs should not repeat")
		seen[id] = true
	}
}

func TestFallbackTraceID(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 4, 9, 30, 0, 123456789, time.UTC)
	id := fallbackTraceID(now)
	require.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	require.NoError(t, err, "fallback ID must be valid hex")

	// The derivation is pure, so the same instant yields the same ID and
	// a different instant yields a different one.
	assert.Equal(t, id, fallbackTraceID(now))
	assert.NotEqual(t, id, fallbackTraceID(now.Add(time.Nanosecond)))
}
