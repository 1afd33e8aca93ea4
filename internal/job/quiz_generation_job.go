package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// Common errors
var (
	ErrNilGenerator   = errors.New("generator cannot be nil")
	ErrNilQuizService = errors.New("quiz service cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
	ErrEmptyUserID    = errors.New("user ID cannot be empty")
	ErrEmptyNotes     = errors.New("notes cannot be empty")
)

// Generator defines the interface for quiz item generation services
type Generator interface {
	// GenerateItems creates review items from study notes
	GenerateItems(ctx context.Context, notes, subject string, userID uuid.UUID) ([]*domain.ReviewItem, error)
}

// QuizService defines the interface for quiz service operations
type QuizService interface {
	// CreateItems creates multiple review items and their default
	// schedules in a single transaction
	CreateItems(ctx context.Context, items []*domain.ReviewItem) error
}

// quizGenerationPayload represents the serialized data stored in the job
type quizGenerationPayload struct {
	UserID  uuid.UUID `json:"user_id"`
	Subject string    `json:"subject"`
	Notes   string    `json:"notes"`
}

// QuizGenerationJob implements the Job interface for generating
// quiz items from a student's notes
type QuizGenerationJob struct {
	id          uuid.UUID
	userID      uuid.UUID
	subject     string
	notes       string
	generator   Generator
	quizService QuizService
	logger      *slog.Logger
	status      JobStatus
}

// NewQuizGenerationJob creates a new quiz generation job
func NewQuizGenerationJob(
	userID uuid.UUID,
	subject, notes string,
	generator Generator,
	quizService QuizService,
	logger *slog.Logger,
) (*QuizGenerationJob, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if quizService == nil {
		return nil, ErrNilQuizService
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if notes == "" {
		return nil, ErrEmptyNotes
	}

	return &QuizGenerationJob{
		id:          uuid.New(),
		userID:      userID,
		subject:     subject,
		notes:       notes,
		generator:   generator,
		quizService: quizService,
		logger:      logger.With("job_type", JobTypeQuizGeneration, "user_id", userID),
		status:      JobStatusPending,
	}, nil
}

// ID returns the job's unique identifier
func (j *QuizGenerationJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier
func (j *QuizGenerationJob) Type() string {
	return JobTypeQuizGeneration
}

// Payload returns the job data as a byte slice
func (j *QuizGenerationJob) Payload() []byte {
	payload := quizGenerationPayload{
		UserID:  j.userID,
		Subject: j.subject,
		Notes:   j.notes,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		j.logger.Error("failed to marshal job payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current job status
func (j *QuizGenerationJob) Status() JobStatus {
	return j.status
}

// Execute generates quiz items from the notes and saves them together
// with their default review schedules.
func (j *QuizGenerationJob) Execute(ctx context.Context) error {
	j.status = JobStatusProcessing
	j.logger.Info("starting quiz generation job", "subject", j.subject)

	if err := ctx.Err(); err != nil {
		j.status = JobStatusFailed
		j.logger.Error("job cancelled by context", "error", err)
		return fmt.Errorf("job cancelled by context: %w", err)
	}

	items, err := j.generator.GenerateItems(ctx, j.notes, j.subject, j.userID)
	if err != nil {
		j.status = JobStatusFailed
		j.logger.Error("failed to generate quiz items", "error", err)
		return fmt.Errorf("failed to generate quiz items: %w", err)
	}

	j.logger.Info("quiz items generated", "count", len(items))

	if len(items) > 0 {
		if err := j.quizService.CreateItems(ctx, items); err != nil {
			j.status = JobStatusFailed
			j.logger.Error("failed to save generated quiz items", "error", err)
			return fmt.Errorf("failed to save generated quiz items: %w", err)
		}
		j.logger.Info("saved generated quiz items and schedules")
	} else {
		j.logger.Warn("no quiz items were generated from the notes")
	}

	j.status = JobStatusCompleted
	j.logger.Info("quiz generation job completed successfully", "items_generated", len(items))
	return nil
}
