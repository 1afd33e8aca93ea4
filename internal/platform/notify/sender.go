// Package notify delivers task reminders to users. The only transport
// wired in today writes to the server log; a real push provider slots
// in behind the same interface.
package notify

import (
	"context"
	"log/slog"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// LogSender records reminder deliveries in the structured log.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender writing to the given logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{
		logger: logger.With(slog.String("component", "notify")),
	}
}

// SendTaskReminder logs the reminder instead of pushing it to a device.
func (s *LogSender) SendTaskReminder(ctx context.Context, task *domain.Task) error {
	s.logger.InfoContext(ctx, "task reminder due",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.String("subject", task.Subject),
		slog.String("title", task.Title))
	return nil
}
