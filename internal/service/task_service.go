package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/domain/reminder"
	"github.com/mbecker/studycoach-api/internal/store"
)

// CreateTaskInput carries the caller-supplied fields of a new task.
type CreateTaskInput struct {
	Subject          string
	Title            string
	DueDate          *domain.Date
	DueTime          string
	EstimatedMinutes int
}

// TaskService provides task management operations.
type TaskService interface {
	// CreateTask creates a new task for the user and computes its
	// reminder time from the due date and the user's preferences.
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// GetTask retrieves one of the user's tasks.
	// Returns ErrNotOwned if the task belongs to another user.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves the user's open tasks in creation order.
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// CompleteTask marks a task completed, stamping completed_at and
	// clearing any pending reminder.
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// DeleteTask removes one of the user's tasks.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	db        *sql.DB
	taskStore store.TaskStore
	userStore store.UserStore
	logger    *slog.Logger
	timeFunc  func() time.Time // Injectable for testing
}

// NewTaskService creates a new TaskService
func NewTaskService(
	db *sql.DB,
	taskStore store.TaskStore,
	userStore store.UserStore,
	logger *slog.Logger,
) TaskService {
	return &taskServiceImpl{
		db:        db,
		taskStore: taskStore,
		userStore: userStore,
		logger:    logger.With("component", "task_service"),
		timeFunc:  func() time.Time { return time.Now().UTC() },
	}
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user for task creation",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	now := s.timeFunc()
	task, err := domain.NewTask(
		userID,
		input.Subject,
		input.Title,
		input.DueDate,
		input.DueTime,
		input.EstimatedMinutes,
		now,
	)
	if err != nil {
		s.logger.Warn("task validation failed during create",
			"error", err,
			"user_id", userID)
		return nil, err
	}

	loc := userLocation(user, s.logger)
	triggerAt, err := reminder.TriggerTime(task, user.Preferences, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to compute reminder time: %w", err)
	}
	task.ReminderAt = triggerAt

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"user_id", userID,
		"has_reminder", task.ReminderAt != nil)

	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.UserID != userID {
		s.logger.Warn("task access denied",
			"task_id", taskID,
			"user_id", userID)
		return nil, ErrNotOwned
	}

	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListPending(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CompleteTask implements TaskService.CompleteTask.
// The update runs in a transaction so the status change and reminder
// clearing cannot diverge.
func (s *taskServiceImpl) CompleteTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	var completed *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		if task.UserID != userID {
			return ErrNotOwned
		}

		now := s.timeFunc()
		task.Status = domain.TaskStatusCompleted
		task.CompletedAt = &now
		task.ReminderAt = nil
		task.UpdatedAt = now

		if err := txStore.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		completed = task
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("task completed",
		"task_id", taskID,
		"user_id", userID)

	return completed, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		if task.UserID != userID {
			return ErrNotOwned
		}

		return txStore.Delete(ctx, taskID)
	})
}

// userLocation resolves the user's preferred time zone, falling back to
// UTC when unset or unknown.
func userLocation(user *domain.User, log *slog.Logger) *time.Location {
	if user.Preferences.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(user.Preferences.Timezone)
	if err != nil {
		log.Warn("unknown user timezone, falling back to UTC",
			"timezone", user.Preferences.Timezone,
			"user_id", user.ID)
		return time.UTC
	}
	return loc
}
