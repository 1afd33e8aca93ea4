package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/studycoach-api/internal/domain"
)

func TestLogSenderRecordsReminder(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	sender := NewLogSender(logger)

	task := &domain.Task{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Subject:   "math",
		Title:     "Finish problem set 4",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	err := sender.SendTaskReminder(context.Background(), task)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, task.ID.String())
	assert.Contains(t, out, "Finish problem set 4")
	assert.Contains(t, out, "math")
}
