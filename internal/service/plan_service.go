package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/domain/planner"
	"github.com/mbecker/studycoach-api/internal/store"
)

// PlanService builds the prioritized daily study plan.
type PlanService interface {
	// GenerateDailyPlan loads the user's open tasks and ranks them for
	// the given day. An empty task list produces an empty plan.
	GenerateDailyPlan(ctx context.Context, userID uuid.UUID, today domain.Date) (*domain.DailyPlan, error)
}

// planServiceImpl implements the PlanService interface
type planServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(taskStore store.TaskStore, logger *slog.Logger) PlanService {
	return &planServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "plan_service"),
	}
}

// GenerateDailyPlan implements PlanService.GenerateDailyPlan
func (s *planServiceImpl) GenerateDailyPlan(
	ctx context.Context,
	userID uuid.UUID,
	today domain.Date,
) (*domain.DailyPlan, error) {
	tasks, err := s.taskStore.ListPending(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load pending tasks for plan",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to load tasks for plan: %w", err)
	}

	plan := planner.GeneratePlan(tasks, today)

	s.logger.Debug("daily plan generated",
		"user_id", userID,
		"entries", len(plan.Entries),
		"total_estimated_minutes", plan.TotalEstimatedMinutes)

	return plan, nil
}
