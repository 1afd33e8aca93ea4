package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/domain/recap"
	"github.com/mbecker/studycoach-api/internal/store"
)

// RecapService assembles the end-of-day summary.
type RecapService interface {
	// DailyRecap aggregates the user's sessions, completed tasks, and
	// review activity for the given day into one summary. The day's
	// bounds follow the user's configured time zone.
	DailyRecap(ctx context.Context, userID uuid.UUID, today domain.Date) (*domain.RecapSummary, error)
}

// recapServiceImpl implements the RecapService interface
type recapServiceImpl struct {
	userStore    store.UserStore
	taskStore    store.TaskStore
	sessionStore store.SessionStore
	stateStore   store.ReviewStateStore
	logger       *slog.Logger
}

// NewRecapService creates a new RecapService
func NewRecapService(
	userStore store.UserStore,
	taskStore store.TaskStore,
	sessionStore store.SessionStore,
	stateStore store.ReviewStateStore,
	logger *slog.Logger,
) RecapService {
	return &recapServiceImpl{
		userStore:    userStore,
		taskStore:    taskStore,
		sessionStore: sessionStore,
		stateStore:   stateStore,
		logger:       logger.With("component", "recap_service"),
	}
}

// DailyRecap implements RecapService.DailyRecap
func (s *recapServiceImpl) DailyRecap(
	ctx context.Context,
	userID uuid.UUID,
	today domain.Date,
) (*domain.RecapSummary, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for recap: %w", err)
	}

	loc := userLocation(user, s.logger)
	from := time.Date(today.Year, today.Month, today.Day, 0, 0, 0, 0, loc)
	to := from.Add(24 * time.Hour)

	sessions, err := s.sessionStore.ListStartedBetween(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("failed to list sessions for recap",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	completedTasks, err := s.taskStore.ListCompletedSince(ctx, userID, from)
	if err != nil {
		s.logger.Error("failed to list completed tasks for recap",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	pendingTasks, err := s.taskStore.ListPending(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list pending tasks for recap",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}

	reviewed, err := s.stateStore.ListReviewedBetween(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("failed to list reviews for recap",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	passed := 0
	for _, state := range reviewed {
		if state.LastResult == domain.ReviewQualityPass {
			passed++
		}
	}

	summary := recap.Aggregate(sessions, completedTasks, pendingTasks, len(reviewed), passed, today)

	s.logger.Debug("daily recap aggregated",
		"user_id", userID,
		"focus_minutes", summary.FocusMinutes,
		"tasks_completed", summary.TasksCompleted,
		"items_reviewed", summary.ItemsReviewed)

	return summary, nil
}
