package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// ReviewItemStore defines the interface for quiz-item persistence.
type ReviewItemStore interface {
	// Create saves a new review item.
	// Returns validation errors from the domain ReviewItem if data is invalid.
	Create(ctx context.Context, item *domain.ReviewItem) error

	// CreateMultiple saves a batch of review items.
	// IMPORTANT: This method MUST be run within a transaction for atomicity.
	// Use the WithTx method with store.RunInTransaction so a failed insert
	// does not leave a partial batch behind.
	CreateMultiple(ctx context.Context, items []*domain.ReviewItem) error

	// GetByID retrieves a review item by its unique ID.
	// Returns ErrReviewItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewItem, error)

	// ListByUser retrieves the user's review items, optionally filtered
	// to one subject. An empty subject matches all subjects.
	ListByUser(ctx context.Context, userID uuid.UUID, subject string) ([]*domain.ReviewItem, error)

	// Delete removes a review item by its ID. The item's schedule row is
	// removed by the database through ON DELETE CASCADE.
	// Returns ErrReviewItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ReviewItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewItemStore
}

// ReviewStateStore defines the interface for spaced-repetition schedule
// persistence.
type ReviewStateStore interface {
	// Create saves a new schedule entry for an item.
	// Returns validation errors from the domain ReviewState if data is invalid.
	Create(ctx context.Context, state *domain.ReviewState) error

	// Get retrieves the schedule for one (user, item) pair.
	// Returns ErrReviewStateNotFound if the entry does not exist.
	// NOTE: This method does NOT provide any row locking, so it should not
	// be used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error)

	// GetForUpdate retrieves the schedule with a row-level lock using
	// SELECT FOR UPDATE. This should be used within a transaction when
	// recording a review, so concurrent submissions cannot both advance
	// the same stale schedule.
	// Returns ErrReviewStateNotFound if the entry does not exist.
	GetForUpdate(ctx context.Context, userID, itemID uuid.UUID) (*domain.ReviewState, error)

	// Update saves changes to an existing schedule entry.
	// Returns ErrReviewStateNotFound if the entry does not exist.
	Update(ctx context.Context, state *domain.ReviewState) error

	// ListByUser retrieves all of the user's schedule entries.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ReviewState, error)

	// ListReviewedBetween retrieves entries whose last review happened in
	// [from, to). Used to count the day's quiz activity for the recap.
	ListReviewedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.ReviewState, error)

	// WithTx returns a new ReviewStateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewStateStore
}
