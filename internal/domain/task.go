package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a study task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskUserIDEmpty is returned when a task's user ID is empty or nil.
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskEstimateInvalid is returned when estimated minutes is not positive.
	ErrTaskEstimateInvalid = errors.New("task estimated minutes must be positive")

	// ErrTaskStatusInvalid is returned when a task status is not recognized.
	ErrTaskStatusInvalid = errors.New("invalid task status")

	// ErrTaskDueTimeInvalid is returned when a due time is not in HH:MM form.
	ErrTaskDueTimeInvalid = errors.New("task due time must be in HH:MM format")
)

var dueTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Task is a single piece of schoolwork the student intends to finish: an
// assignment, a reading, a problem set. The planner only reads tasks; the
// store owns their persistence.
type Task struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Subject          string     `json:"subject"`
	Title            string     `json:"title"`
	DueDate          *Date      `json:"due_date,omitempty"`
	DueTime          string     `json:"due_time,omitempty"` // optional HH:MM, local to the user
	EstimatedMinutes int        `json:"estimated_minutes"`
	Status           TaskStatus `json:"status"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ReminderAt       *time.Time `json:"reminder_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewTask creates a new Task in the not_started state.
// Returns an error if validation fails.
func NewTask(
	userID uuid.UUID,
	subject, title string,
	dueDate *Date,
	dueTime string,
	estimatedMinutes int,
	now time.Time,
) (*Task, error) {
	task := &Task{
		ID:               uuid.New(),
		UserID:           userID,
		Subject:          subject,
		Title:            title,
		DueDate:          dueDate,
		DueTime:          dueTime,
		EstimatedMinutes: estimatedMinutes,
		Status:           TaskStatusNotStarted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if t.EstimatedMinutes <= 0 {
		return ErrTaskEstimateInvalid
	}

	switch t.Status {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
	default:
		return ErrTaskStatusInvalid
	}

	if t.DueTime != "" && !dueTimePattern.MatchString(t.DueTime) {
		return ErrTaskDueTimeInvalid
	}

	return nil
}

// IsCompleted reports whether the task has been finished.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}
