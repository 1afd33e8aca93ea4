package generation

import (
	"context"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// Generator defines the interface for generating quiz items from text.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Generator interface {
	// GenerateItems creates review items based on the provided study
	// notes, for the given subject and user.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - notes: The study notes to generate quiz questions from
	//   - subject: The subject the generated items belong to
	//   - userID: The UUID of the user who owns the notes
	//
	// Returns:
	//   - A slice of domain.ReviewItem pointers representing the generated questions
	//   - An error if the generation fails for any reason (see errors.go for specific types)
	GenerateItems(ctx context.Context, notes, subject string, userID uuid.UUID) ([]*domain.ReviewItem, error)
}
