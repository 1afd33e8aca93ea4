package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/events"
	"github.com/mbecker/studycoach-api/internal/job"
	"github.com/mbecker/studycoach-api/internal/store"
)

// ErrEmptyNotes indicates a generation request without any study notes.
var ErrEmptyNotes = errors.New("notes cannot be empty")

// QuizService manages the user's review item pool: manual item
// creation, batch saves from the generator, and generation requests.
type QuizService interface {
	// CreateItem adds one hand-written review item with its default
	// schedule.
	CreateItem(ctx context.Context, userID uuid.UUID, subject, prompt, expectedAnswer string) (*domain.ReviewItem, error)

	// CreateItems saves a batch of generated items and their default
	// schedules in a single transaction. An empty batch is a no-op.
	CreateItems(ctx context.Context, items []*domain.ReviewItem) error

	// ListItems retrieves the user's items, optionally filtered to one
	// subject. An empty subject matches all subjects.
	ListItems(ctx context.Context, userID uuid.UUID, subject string) ([]*domain.ReviewItem, error)

	// DeleteItem removes one of the user's items and its schedule.
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error

	// GenerateFromNotes requests background generation of quiz items
	// from pasted study notes. The work is enqueued, not performed
	// inline, so the call returns as soon as the job is accepted.
	GenerateFromNotes(ctx context.Context, userID uuid.UUID, subject, notes string) error
}

// quizServiceImpl implements the QuizService interface
type quizServiceImpl struct {
	db         *sql.DB
	itemStore  store.ReviewItemStore
	stateStore store.ReviewStateStore
	emitter    events.EventEmitter
	logger     *slog.Logger
	timeFunc   func() time.Time // Injectable for testing
}

// NewQuizService creates a new QuizService
func NewQuizService(
	db *sql.DB,
	itemStore store.ReviewItemStore,
	stateStore store.ReviewStateStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) QuizService {
	return &quizServiceImpl{
		db:         db,
		itemStore:  itemStore,
		stateStore: stateStore,
		emitter:    emitter,
		logger:     logger.With("component", "quiz_service"),
		timeFunc:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateItem implements QuizService.CreateItem
func (s *quizServiceImpl) CreateItem(
	ctx context.Context,
	userID uuid.UUID,
	subject, prompt, expectedAnswer string,
) (*domain.ReviewItem, error) {
	item, err := domain.NewReviewItem(userID, subject, prompt, expectedAnswer, s.timeFunc())
	if err != nil {
		s.logger.Warn("review item validation failed during create",
			"error", err,
			"user_id", userID)
		return nil, err
	}

	if err := s.CreateItems(ctx, []*domain.ReviewItem{item}); err != nil {
		return nil, err
	}

	return item, nil
}

// CreateItems implements QuizService.CreateItems. Items and their
// default schedules are persisted atomically so a generated batch
// never lands half-saved.
func (s *quizServiceImpl) CreateItems(ctx context.Context, items []*domain.ReviewItem) error {
	if len(items) == 0 {
		return nil
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.itemStore.WithTx(tx)
		txStates := s.stateStore.WithTx(tx)
		now := s.timeFunc()
		today := domain.DateOf(now)

		if err := txItems.CreateMultiple(ctx, items); err != nil {
			return fmt.Errorf("failed to create review items: %w", err)
		}

		for _, item := range items {
			state, err := domain.NewReviewState(item.UserID, item.ID, today, now)
			if err != nil {
				return fmt.Errorf("failed to build default review state: %w", err)
			}
			if err := txStates.Create(ctx, state); err != nil {
				return fmt.Errorf("failed to create review state: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		s.logger.Error("failed to save review item batch",
			"error", err,
			"count", len(items))
		return err
	}

	s.logger.Info("review item batch saved", "count", len(items))
	return nil
}

// ListItems implements QuizService.ListItems
func (s *quizServiceImpl) ListItems(
	ctx context.Context,
	userID uuid.UUID,
	subject string,
) ([]*domain.ReviewItem, error) {
	items, err := s.itemStore.ListByUser(ctx, userID, subject)
	if err != nil {
		s.logger.Error("failed to list review items",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list review items: %w", err)
	}
	return items, nil
}

// DeleteItem implements QuizService.DeleteItem
func (s *quizServiceImpl) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.itemStore.WithTx(tx)

		item, err := txItems.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		if item.UserID != userID {
			return ErrNotOwned
		}

		return txItems.Delete(ctx, itemID)
	})
}

// GenerateFromNotes implements QuizService.GenerateFromNotes
func (s *quizServiceImpl) GenerateFromNotes(
	ctx context.Context,
	userID uuid.UUID,
	subject, notes string,
) error {
	if notes == "" {
		return ErrEmptyNotes
	}

	payload := struct {
		UserID  uuid.UUID `json:"user_id"`
		Subject string    `json:"subject"`
		Notes   string    `json:"notes"`
	}{
		UserID:  userID,
		Subject: subject,
		Notes:   notes,
	}

	event, err := events.NewJobRequestEvent(job.JobTypeQuizGeneration, payload)
	if err != nil {
		return fmt.Errorf("failed to build generation event: %w", err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit generation event",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to enqueue generation: %w", err)
	}

	s.logger.Info("quiz generation requested",
		"user_id", userID,
		"subject", subject,
		"notes_length", len(notes))

	return nil
}
