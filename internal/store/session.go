package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// SessionStore defines the interface for focus-session persistence.
//
// At most one live (running or paused) session exists per user; the
// store enforces this with a partial unique index and the service layer
// relies on GetLiveForUpdate to serialize transitions.
type SessionStore interface {
	// Create saves a new focus session.
	// Returns validation errors from the domain FocusSession if data is invalid.
	Create(ctx context.Context, session *domain.FocusSession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FocusSession, error)

	// GetLive retrieves the user's current running or paused session.
	// Returns ErrSessionNotFound if the user has no live session.
	// NOTE: This method does NOT provide any row locking, so it should not
	// be used when you plan to update the row and need concurrency protection.
	GetLive(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)

	// GetLiveForUpdate retrieves the user's live session with a row-level
	// lock using SELECT FOR UPDATE. This should be used within a
	// transaction when applying a state transition, so two concurrent
	// commands cannot act on the same stale snapshot.
	// Returns ErrSessionNotFound if the user has no live session.
	GetLiveForUpdate(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)

	// Update saves changes to an existing session.
	// Returns ErrSessionNotFound if the session does not exist.
	// Returns validation errors if the session data is invalid.
	Update(ctx context.Context, session *domain.FocusSession) error

	// ListStartedBetween retrieves the user's sessions that started in
	// [from, to), oldest first. Used to build the daily recap.
	ListStartedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.FocusSession, error)

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) SessionStore
}
