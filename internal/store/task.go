package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// TaskStore defines the interface for study-task persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListPending retrieves all of a user's tasks that are not yet
	// completed, in creation order. Returns an empty slice when the
	// user has no open tasks.
	ListPending(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListCompletedSince retrieves the user's tasks completed at or
	// after the given instant, most recent first.
	ListCompletedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Task, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns validation errors if the task data is invalid.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListDueReminders retrieves tasks across all users whose reminder
	// time has arrived: reminder_at is set, at or before the given
	// instant, and the task is not completed.
	ListDueReminders(ctx context.Context, before time.Time, limit int) ([]*domain.Task, error)

	// ClearReminder unsets a task's reminder time after delivery so it
	// is not dispatched again.
	// Returns ErrTaskNotFound if the task does not exist.
	ClearReminder(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
