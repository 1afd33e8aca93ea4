package job

import (
	"log/slog"

	"github.com/google/uuid"
)

// QuizGenerationJobFactory creates QuizGenerationJob instances with their
// dependencies already bound.
type QuizGenerationJobFactory struct {
	generator   Generator
	quizService QuizService
	logger      *slog.Logger
}

// NewQuizGenerationJobFactory creates a new factory for QuizGenerationJobs
func NewQuizGenerationJobFactory(
	generator Generator,
	quizService QuizService,
	logger *slog.Logger,
) *QuizGenerationJobFactory {
	return &QuizGenerationJobFactory{
		generator:   generator,
		quizService: quizService,
		logger:      logger,
	}
}

// CreateJob builds a quiz generation job for the given user's notes.
func (f *QuizGenerationJobFactory) CreateJob(
	userID uuid.UUID,
	subject string,
	notes string,
) (Job, error) {
	return NewQuizGenerationJob(userID, subject, notes, f.generator, f.quizService, f.logger)
}
