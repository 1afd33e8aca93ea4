package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/events"
)

// QuizGenerationEventHandler implements events.EventHandler. It turns
// quiz generation request events into jobs and hands them to the runner.
type QuizGenerationEventHandler struct {
	factory *QuizGenerationJobFactory
	runner  *JobRunner
	logger  *slog.Logger
}

// NewQuizGenerationEventHandler creates an event handler that uses the given
// factory to build jobs and submits them to the provided runner.
func NewQuizGenerationEventHandler(
	factory *QuizGenerationJobFactory,
	runner *JobRunner,
	logger *slog.Logger,
) *QuizGenerationEventHandler {
	return &QuizGenerationEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "quiz_generation_event_handler"),
	}
}

// HandleEvent processes quiz generation request events. Events of any
// other type are ignored so multiple handlers can share one emitter.
func (h *QuizGenerationEventHandler) HandleEvent(
	ctx context.Context,
	event *events.JobRequestEvent,
) error {
	if event.Type != JobTypeQuizGeneration {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload struct {
		UserID  string `json:"user_id"`
		Subject string `json:"subject"`
		Notes   string `json:"notes"`
	}

	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		h.logger.Error("invalid user ID",
			"error", err,
			"user_id", payload.UserID,
			"event_id", event.ID)
		return fmt.Errorf("invalid user ID: %w", err)
	}

	quizJob, err := h.factory.CreateJob(userID, payload.Subject, payload.Notes)
	if err != nil {
		h.logger.Error("failed to create job",
			"error", err,
			"user_id", userID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create job: %w", err)
	}

	if err := h.runner.Submit(ctx, quizJob); err != nil {
		h.logger.Error("failed to submit job",
			"error", err,
			"job_id", quizJob.ID(),
			"user_id", userID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit job: %w", err)
	}

	h.logger.Info("job created and submitted",
		"job_id", quizJob.ID(),
		"user_id", userID,
		"event_id", event.ID)
	return nil
}

// Ensure QuizGenerationEventHandler implements events.EventHandler
var _ events.EventHandler = (*QuizGenerationEventHandler)(nil)
