package job

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current state of a background job
type JobStatus string

// Possible job status values
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job type constants
const (
	// JobTypeQuizGeneration represents the job type for generating quiz items from notes
	JobTypeQuizGeneration = "quiz_generation"

	// JobTypeReminderDispatch represents the job type for delivering due task reminders
	JobTypeReminderDispatch = "reminder_dispatch"
)

// Job represents a unit of background work to be processed
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Payload returns the job data as a byte slice
	Payload() []byte

	// Status returns the current job status
	Status() JobStatus

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// JobQueueReader provides read-only access to the job channel
// allowing workers to consume jobs without the ability to enqueue
type JobQueueReader interface {
	// GetChannel returns a read-only channel for consuming jobs
	GetChannel() <-chan Job
}

// JobQueueWriter provides write access to the job queue
// allowing services to enqueue jobs for processing
type JobQueueWriter interface {
	// Enqueue adds a job to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(job Job) error

	// Close closes the job queue, preventing further job submission
	Close()
}

// JobStore defines the interface for persisting jobs
type JobStore interface {
	// SaveJob persists a job to the database
	SaveJob(ctx context.Context, job Job) error

	// UpdateJobStatus updates the status of a job
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status JobStatus, errorMsg string) error

	// GetPendingJobs retrieves all jobs with "pending" status
	GetPendingJobs(ctx context.Context) ([]Job, error)

	// GetProcessingJobs retrieves jobs with "processing" status
	// If olderThan is non-zero, only returns jobs that have been in this state
	// longer than the specified duration
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Job, error)

	// WithTx returns a new JobStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) JobStore
}
