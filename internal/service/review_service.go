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
	"github.com/mbecker/studycoach-api/internal/domain/match"
	"github.com/mbecker/studycoach-api/internal/domain/srs"
	"github.com/mbecker/studycoach-api/internal/store"
)

// SubmitAnswerResult reports the outcome of grading one answer: the
// grade, the reference answer, and where the item's schedule landed.
type SubmitAnswerResult struct {
	ItemID         uuid.UUID            `json:"item_id"`
	Quality        domain.ReviewQuality `json:"quality"`
	ExpectedAnswer string               `json:"expected_answer"`
	IntervalDays   int                  `json:"interval_days"`
	NextReviewDate domain.Date          `json:"next_review_date"`
}

// ReviewService runs the quiz flow: selecting due items and grading
// free-text answers into schedule updates.
type ReviewService interface {
	// DueItems returns the user's items due on or before today,
	// least-mastered first. A non-empty subject is resolved against the
	// user's stored subjects by token overlap, so a spoken or loosely
	// typed name still filters correctly.
	DueItems(ctx context.Context, userID uuid.UUID, subject string, today domain.Date, limit int) ([]srs.DueItem, error)

	// SubmitAnswer grades a free-text answer and advances the item's
	// schedule in one transaction. An item reviewed for the first time
	// gets its default schedule created on the spot.
	SubmitAnswer(ctx context.Context, userID, itemID uuid.UUID, answer string, today domain.Date) (*SubmitAnswerResult, error)
}

// reviewServiceImpl implements the ReviewService interface
type reviewServiceImpl struct {
	db         *sql.DB
	itemStore  store.ReviewItemStore
	stateStore store.ReviewStateStore
	srs        srs.Service
	logger     *slog.Logger
	timeFunc   func() time.Time // Injectable for testing
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	db *sql.DB,
	itemStore store.ReviewItemStore,
	stateStore store.ReviewStateStore,
	srsService srs.Service,
	logger *slog.Logger,
) ReviewService {
	return &reviewServiceImpl{
		db:         db,
		itemStore:  itemStore,
		stateStore: stateStore,
		srs:        srsService,
		logger:     logger.With("component", "review_service"),
		timeFunc:   func() time.Time { return time.Now().UTC() },
	}
}

// DueItems implements ReviewService.DueItems
func (s *reviewServiceImpl) DueItems(
	ctx context.Context,
	userID uuid.UUID,
	subject string,
	today domain.Date,
	limit int,
) ([]srs.DueItem, error) {
	items, err := s.itemStore.ListByUser(ctx, userID, "")
	if err != nil {
		s.logger.Error("failed to list review items",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list review items: %w", err)
	}

	if subject != "" {
		resolved, err := resolveSubject(subject, items)
		if err != nil {
			return nil, err
		}
		subject = resolved
	}

	states, err := s.stateStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list review states",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list review states: %w", err)
	}

	due := s.srs.DueItems(items, states, subject, today, limit)

	s.logger.Debug("due items selected",
		"user_id", userID,
		"subject", subject,
		"due", len(due))

	return due, nil
}

// SubmitAnswer implements ReviewService.SubmitAnswer
func (s *reviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID, itemID uuid.UUID,
	answer string,
	today domain.Date,
) (*SubmitAnswerResult, error) {
	var result *SubmitAnswerResult

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txItems := s.itemStore.WithTx(tx)
		txStates := s.stateStore.WithTx(tx)
		now := s.timeFunc()

		item, err := txItems.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		if item.UserID != userID {
			s.logger.Warn("review item access denied",
				"item_id", itemID,
				"user_id", userID)
			return ErrNotOwned
		}

		state, err := txStates.GetForUpdate(ctx, userID, itemID)
		created := false
		if err != nil {
			if !errors.Is(err, store.ErrReviewStateNotFound) {
				return fmt.Errorf("failed to load review state: %w", err)
			}
			state, err = domain.NewReviewState(userID, itemID, today, now)
			if err != nil {
				return fmt.Errorf("failed to build default review state: %w", err)
			}
			created = true
		}

		quality := s.srs.Score(item.ExpectedAnswer, answer)

		next, err := s.srs.Review(state, quality, today, now)
		if err != nil {
			return fmt.Errorf("failed to compute next review state: %w", err)
		}

		if created {
			if err := txStates.Create(ctx, next); err != nil {
				return fmt.Errorf("failed to create review state: %w", err)
			}
		} else {
			if err := txStates.Update(ctx, next); err != nil {
				return fmt.Errorf("failed to update review state: %w", err)
			}
		}

		result = &SubmitAnswerResult{
			ItemID:         itemID,
			Quality:        quality,
			ExpectedAnswer: item.ExpectedAnswer,
			IntervalDays:   next.IntervalDays,
			NextReviewDate: next.NextReviewDate,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("answer graded",
		"item_id", itemID,
		"user_id", userID,
		"quality", result.Quality,
		"interval_days", result.IntervalDays)

	return result, nil
}

// resolveSubject matches a loosely specified subject against the
// subjects present in the user's items.
func resolveSubject(subject string, items []*domain.ReviewItem) (string, error) {
	seen := make(map[string]bool, len(items))
	candidates := make([]string, 0, len(items))
	for _, item := range items {
		if item.Subject == "" || seen[item.Subject] {
			continue
		}
		seen[item.Subject] = true
		candidates = append(candidates, item.Subject)
	}

	resolved, err := match.Resolve(subject, candidates)
	if err != nil {
		return "", fmt.Errorf("failed to resolve subject %q: %w", subject, err)
	}
	return resolved, nil
}
