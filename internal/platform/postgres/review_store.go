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

// PostgresReviewItemStore implements the store.ReviewItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewItemStore creates a new PostgreSQL implementation of the
// ReviewItemStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReviewItemStore(db store.DBTX, logger *slog.Logger) *PostgresReviewItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_item_store")),
	}
}

// Ensure PostgresReviewItemStore implements store.ReviewItemStore interface
var _ store.ReviewItemStore = (*PostgresReviewItemStore)(nil)

// Create implements store.ReviewItemStore.Create
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresReviewItemStore) Create(ctx context.Context, item *domain.ReviewItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("review item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_items (id, user_id, subject, prompt, expected_answer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.Subject,
		item.Prompt,
		item.ExpectedAnswer,
		item.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create review item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()),
			slog.String("user_id", item.UserID.String()))
		return MapError(err)
	}

	log.Info("review item created",
		slog.String("item_id", item.ID.String()),
		slog.String("user_id", item.UserID.String()))
	return nil
}

// CreateMultiple implements store.ReviewItemStore.CreateMultiple
// IMPORTANT: This method MUST be run within a transaction (use WithTx with
// store.RunInTransaction) so a failed insert rolls back the whole batch.
func (s *PostgresReviewItemStore) CreateMultiple(
	ctx context.Context,
	items []*domain.ReviewItem,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(items) == 0 {
		return nil
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("review item validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
			return err
		}
	}

	query := `
		INSERT INTO review_items (id, user_id, subject, prompt, expected_answer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, item := range items {
		_, err := s.db.ExecContext(
			ctx,
			query,
			item.ID,
			item.UserID,
			item.Subject,
			item.Prompt,
			item.ExpectedAnswer,
			item.CreatedAt,
		)
		if err != nil {
			log.Error("failed to create review item in batch",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
			return MapError(err)
		}
	}

	log.Info("review item batch created", slog.Int("count", len(items)))
	return nil
}

// GetByID implements store.ReviewItemStore.GetByID
// Returns store.ErrReviewItemNotFound if the item does not exist.
func (s *PostgresReviewItemStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.ReviewItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, subject, prompt, expected_answer, created_at
		FROM review_items
		WHERE id = $1
	`

	var item domain.ReviewItem
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.Subject,
		&item.Prompt,
		&item.ExpectedAnswer,
		&item.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("review item not found", slog.String("item_id", id.String()))
			return nil, store.ErrReviewItemNotFound
		}
		log.Error("failed to get review item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}

	return &item, nil
}

// ListByUser implements store.ReviewItemStore.ListByUser
// An empty subject matches all subjects.
func (s *PostgresReviewItemStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	subject string,
) ([]*domain.ReviewItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, subject, prompt, expected_answer, created_at
		FROM review_items
		WHERE user_id = $1 AND ($2 = '' OR subject = $2)
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, subject)
	if err != nil {
		log.Error("failed to query review items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.ReviewItem, 0)
	for rows.Next() {
		var item domain.ReviewItem
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Subject,
			&item.Prompt,
			&item.ExpectedAnswer,
			&item.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan review item row", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating review item rows", slog.String("error", err.Error()))
		return nil, err
	}

	return items, nil
}

// Delete implements store.ReviewItemStore.Delete
// The item's schedule row is removed by ON DELETE CASCADE.
// Returns store.ErrReviewItemNotFound if the item does not exist.
func (s *PostgresReviewItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM review_items WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete review item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("review item not found for delete",
			slog.String("item_id", id.String()))
		return store.ErrReviewItemNotFound
	}

	log.Info("review item deleted", slog.String("item_id", id.String()))
	return nil
}

// WithTx implements store.ReviewItemStore.WithTx
func (s *PostgresReviewItemStore) WithTx(tx *sql.Tx) store.ReviewItemStore {
	return &PostgresReviewItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// stateColumns is the column list shared by every schedule SELECT.
const stateColumns = `item_id, user_id, ease_factor, interval_days, repetitions,
	next_review_date, last_result, last_reviewed_at, created_at, updated_at`

// PostgresReviewStateStore implements the store.ReviewStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStateStore creates a new PostgreSQL implementation of the
// ReviewStateStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStateStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

// Ensure PostgresReviewStateStore implements store.ReviewStateStore interface
var _ store.ReviewStateStore = (*PostgresReviewStateStore)(nil)

// Create implements store.ReviewStateStore.Create
func (s *PostgresReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	query := `
		INSERT INTO review_states (` + stateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.ItemID,
		state.UserID,
		state.EaseFactor,
		state.IntervalDays,
		state.Repetitions,
		state.NextReviewDate,
		nullString(string(state.LastResult)),
		state.LastReviewedAt,
		state.CreatedAt,
		state.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create review state",
			slog.String("error", err.Error()),
			slog.String("item_id", state.ItemID.String()),
			slog.String("user_id", state.UserID.String()))
		return MapError(err)
	}

	return nil
}

// Get implements store.ReviewStateStore.Get
// Returns store.ErrReviewStateNotFound if the entry does not exist.
func (s *PostgresReviewStateStore) Get(
	ctx context.Context,
	userID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	query := `
		SELECT ` + stateColumns + `
		FROM review_states
		WHERE user_id = $1 AND item_id = $2
	`
	return s.getOne(ctx, query, userID, itemID)
}

// GetForUpdate implements store.ReviewStateStore.GetForUpdate
// It locks the schedule row with SELECT FOR UPDATE; call it inside a
// transaction when recording a review.
// Returns store.ErrReviewStateNotFound if the entry does not exist.
func (s *PostgresReviewStateStore) GetForUpdate(
	ctx context.Context,
	userID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	query := `
		SELECT ` + stateColumns + `
		FROM review_states
		WHERE user_id = $1 AND item_id = $2
		FOR UPDATE
	`
	return s.getOne(ctx, query, userID, itemID)
}

// Update implements store.ReviewStateStore.Update
// Returns store.ErrReviewStateNotFound if the entry does not exist.
func (s *PostgresReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during update",
			slog.String("error", err.Error()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	query := `
		UPDATE review_states
		SET ease_factor = $1, interval_days = $2, repetitions = $3,
			next_review_date = $4, last_result = $5, last_reviewed_at = $6,
			updated_at = $7
		WHERE user_id = $8 AND item_id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		state.EaseFactor,
		state.IntervalDays,
		state.Repetitions,
		state.NextReviewDate,
		nullString(string(state.LastResult)),
		state.LastReviewedAt,
		state.UpdatedAt,
		state.UserID,
		state.ItemID,
	)

	if err != nil {
		log.Error("failed to update review state",
			slog.String("error", err.Error()),
			slog.String("item_id", state.ItemID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("review state not found for update",
			slog.String("item_id", state.ItemID.String()))
		return store.ErrReviewStateNotFound
	}

	return nil
}

// ListByUser implements store.ReviewStateStore.ListByUser
func (s *PostgresReviewStateStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.ReviewState, error) {
	query := `
		SELECT ` + stateColumns + `
		FROM review_states
		WHERE user_id = $1
		ORDER BY next_review_date ASC
	`
	return s.queryStates(ctx, query, userID)
}

// ListReviewedBetween implements store.ReviewStateStore.ListReviewedBetween
func (s *PostgresReviewStateStore) ListReviewedBetween(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.ReviewState, error) {
	query := `
		SELECT ` + stateColumns + `
		FROM review_states
		WHERE user_id = $1
			AND last_reviewed_at IS NOT NULL
			AND last_reviewed_at >= $2
			AND last_reviewed_at < $3
		ORDER BY last_reviewed_at ASC
	`
	return s.queryStates(ctx, query, userID, from, to)
}

// WithTx implements store.ReviewStateStore.WithTx
func (s *PostgresReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &PostgresReviewStateStore{
		db:     tx,
		logger: s.logger,
	}
}

// getOne runs a single-row schedule query.
func (s *PostgresReviewStateStore) getOne(
	ctx context.Context,
	query string,
	args ...interface{},
) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := scanReviewState(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewStateNotFound
		}
		log.Error("failed to get review state", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return state, nil
}

// queryStates runs a multi-row schedule query and scans the results.
func (s *PostgresReviewStateStore) queryStates(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query review states", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	states := make([]*domain.ReviewState, 0)
	for rows.Next() {
		state, err := scanReviewState(rows)
		if err != nil {
			log.Error("failed to scan review state row", slog.String("error", err.Error()))
			return nil, err
		}
		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating review state rows", slog.String("error", err.Error()))
		return nil, err
	}

	return states, nil
}

// scanReviewState maps one row onto a domain ReviewState.
func scanReviewState(row rowScanner) (*domain.ReviewState, error) {
	var state domain.ReviewState
	var lastResult sql.NullString
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&state.ItemID,
		&state.UserID,
		&state.EaseFactor,
		&state.IntervalDays,
		&state.Repetitions,
		&state.NextReviewDate,
		&lastResult,
		&lastReviewedAt,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	state.LastResult = domain.ReviewQuality(lastResult.String)
	if lastReviewedAt.Valid {
		t := lastReviewedAt.Time
		state.LastReviewedAt = &t
	}

	return &state, nil
}
