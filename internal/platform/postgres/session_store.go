package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/platform/logger"
	"github.com/mbecker/studycoach-api/internal/store"
)

// sessionColumns is the column list shared by every session SELECT.
const sessionColumns = `id, user_id, subject, state, configured_minutes,
	elapsed_minutes, paused_at, interruption_count, last_activity_at,
	started_at, ended_at, completed, completion_reason`

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
//
// The at-most-one-live-session-per-user invariant is enforced by a partial
// unique index on (user_id) WHERE state IN ('running', 'paused').
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Create implements store.SessionStore.Create
// Returns store.ErrDuplicate (via MapError) when the user already has a
// live session, through the partial unique index.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.FocusSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO focus_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.Subject,
		session.State,
		session.ConfiguredMinutes,
		session.ElapsedMinutes,
		session.PausedAt,
		session.InterruptionCount,
		session.LastActivityAt,
		session.StartedAt,
		session.EndedAt,
		session.Completed,
		nullString(session.CompletionReason),
	)

	if err != nil {
		log.Error("failed to create focus session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", session.UserID.String()))
		return MapError(err)
	}

	log.Info("focus session created",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("subject", session.Subject))
	return nil
}

// GetByID implements store.SessionStore.GetByID
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.FocusSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM focus_sessions WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetLive implements store.SessionStore.GetLive
// Returns store.ErrSessionNotFound if the user has no live session.
func (s *PostgresSessionStore) GetLive(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.FocusSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM focus_sessions
		WHERE user_id = $1 AND state IN ($2, $3)
	`
	return s.getOne(ctx, query, userID, domain.SessionStateRunning, domain.SessionStatePaused)
}

// GetLiveForUpdate implements store.SessionStore.GetLiveForUpdate
// It locks the live session row with SELECT FOR UPDATE; call it inside a
// transaction when applying a state transition.
// Returns store.ErrSessionNotFound if the user has no live session.
func (s *PostgresSessionStore) GetLiveForUpdate(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.FocusSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM focus_sessions
		WHERE user_id = $1 AND state IN ($2, $3)
		FOR UPDATE
	`
	return s.getOne(ctx, query, userID, domain.SessionStateRunning, domain.SessionStatePaused)
}

// Update implements store.SessionStore.Update
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.FocusSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during update",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		UPDATE focus_sessions
		SET state = $1, elapsed_minutes = $2, paused_at = $3,
			interruption_count = $4, last_activity_at = $5, ended_at = $6,
			completed = $7, completion_reason = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		session.State,
		session.ElapsedMinutes,
		session.PausedAt,
		session.InterruptionCount,
		session.LastActivityAt,
		session.EndedAt,
		session.Completed,
		nullString(session.CompletionReason),
		session.ID,
	)

	if err != nil {
		log.Error("failed to update focus session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("focus session not found for update",
			slog.String("session_id", session.ID.String()))
		return store.ErrSessionNotFound
	}

	log.Info("focus session updated",
		slog.String("session_id", session.ID.String()),
		slog.String("state", string(session.State)))
	return nil
}

// ListStartedBetween implements store.SessionStore.ListStartedBetween
func (s *PostgresSessionStore) ListStartedBetween(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.FocusSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM focus_sessions
		WHERE user_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		log.Error("failed to query focus sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]*domain.FocusSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row", slog.String("error", err.Error()))
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating session rows", slog.String("error", err.Error()))
		return nil, err
	}

	return sessions, nil
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// getOne runs a single-row session query.
func (s *PostgresSessionStore) getOne(
	ctx context.Context,
	query string,
	args ...interface{},
) (*domain.FocusSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := scanSession(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get focus session", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return session, nil
}

// scanSession maps one row onto a domain FocusSession.
func scanSession(row rowScanner) (*domain.FocusSession, error) {
	var session domain.FocusSession
	var pausedAt sql.NullTime
	var endedAt sql.NullTime
	var completionReason sql.NullString

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Subject,
		&session.State,
		&session.ConfiguredMinutes,
		&session.ElapsedMinutes,
		&pausedAt,
		&session.InterruptionCount,
		&session.LastActivityAt,
		&session.StartedAt,
		&endedAt,
		&session.Completed,
		&completionReason,
	)
	if err != nil {
		return nil, err
	}

	if pausedAt.Valid {
		t := pausedAt.Time
		session.PausedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}
	session.CompletionReason = completionReason.String

	return &session, nil
}
