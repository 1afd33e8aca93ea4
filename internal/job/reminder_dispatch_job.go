package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// Errors for reminder dispatch dependencies
var (
	ErrNilReminderSource = errors.New("reminder source cannot be nil")
	ErrNilPushSender     = errors.New("push sender cannot be nil")
)

// Batch size for one dispatch sweep. Anything left over is picked up by
// the next tick.
const reminderDispatchBatchSize = 100

// ReminderSource supplies tasks whose reminders are due and records
// that a reminder was delivered.
type ReminderSource interface {
	// ListDueReminders returns tasks whose reminder time is at or before
	// the given instant, up to limit.
	ListDueReminders(ctx context.Context, before time.Time, limit int) ([]*domain.Task, error)

	// ClearReminder unsets a task's reminder so it is not sent twice.
	ClearReminder(ctx context.Context, taskID uuid.UUID) error
}

// PushSender delivers one reminder to the user's device. Implementations
// own the transport; the job only decides what is due.
type PushSender interface {
	SendTaskReminder(ctx context.Context, task *domain.Task) error
}

// reminderDispatchPayload represents the serialized data stored in the job
type reminderDispatchPayload struct {
	Before time.Time `json:"before"`
}

// ReminderDispatchJob implements the Job interface for one sweep over
// due task reminders.
type ReminderDispatchJob struct {
	id     uuid.UUID
	before time.Time
	source ReminderSource
	sender PushSender
	logger *slog.Logger
	status JobStatus
}

// NewReminderDispatchJob creates a job that delivers every reminder due
// at or before the given instant.
func NewReminderDispatchJob(
	before time.Time,
	source ReminderSource,
	sender PushSender,
	logger *slog.Logger,
) (*ReminderDispatchJob, error) {
	if source == nil {
		return nil, ErrNilReminderSource
	}
	if sender == nil {
		return nil, ErrNilPushSender
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &ReminderDispatchJob{
		id:     uuid.New(),
		before: before,
		source: source,
		sender: sender,
		logger: logger.With("job_type", JobTypeReminderDispatch),
		status: JobStatusPending,
	}, nil
}

// ID returns the job's unique identifier
func (j *ReminderDispatchJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier
func (j *ReminderDispatchJob) Type() string {
	return JobTypeReminderDispatch
}

// Payload returns the job data as a byte slice
func (j *ReminderDispatchJob) Payload() []byte {
	data, err := json.Marshal(reminderDispatchPayload{Before: j.before})
	if err != nil {
		j.logger.Error("failed to marshal job payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current job status
func (j *ReminderDispatchJob) Status() JobStatus {
	return j.status
}

// Execute finds due reminders and pushes them one at a time. A failed
// send leaves that task's reminder in place for the next sweep; the job
// only fails when the due list itself cannot be read.
func (j *ReminderDispatchJob) Execute(ctx context.Context) error {
	j.status = JobStatusProcessing

	tasks, err := j.source.ListDueReminders(ctx, j.before, reminderDispatchBatchSize)
	if err != nil {
		j.status = JobStatusFailed
		j.logger.Error("failed to list due reminders", "error", err)
		return fmt.Errorf("failed to list due reminders: %w", err)
	}

	if len(tasks) == 0 {
		j.status = JobStatusCompleted
		return nil
	}

	j.logger.Info("dispatching due reminders", "count", len(tasks))

	sent := 0
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			j.status = JobStatusFailed
			return fmt.Errorf("job cancelled by context: %w", err)
		}

		if err := j.sender.SendTaskReminder(ctx, task); err != nil {
			// left due, next sweep retries it
			j.logger.Error("failed to send reminder",
				"task_id", task.ID,
				"user_id", task.UserID,
				"error", err)
			continue
		}

		if err := j.source.ClearReminder(ctx, task.ID); err != nil {
			j.logger.Error("failed to clear delivered reminder",
				"task_id", task.ID,
				"error", err)
			continue
		}

		sent++
	}

	j.status = JobStatusCompleted
	j.logger.Info("reminder dispatch completed", "sent", sent, "due", len(tasks))
	return nil
}
