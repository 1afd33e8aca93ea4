package job

import (
	"errors"
	"fmt"
	"log/slog"
)

// Common errors returned by the JobQueue
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// JobQueue implements a buffered job queue that satisfies both
// JobQueueReader and JobQueueWriter interfaces
type JobQueue struct {
	jobs   chan Job
	logger *slog.Logger
	closed bool
}

// NewJobQueue creates a new job queue with the specified buffer size
func NewJobQueue(size int, logger *slog.Logger) *JobQueue {
	return &JobQueue{
		jobs:   make(chan Job, size),
		logger: logger,
		closed: false,
	}
}

// Enqueue adds a job to the queue for processing
// Returns an error if the queue is full or closed
func (q *JobQueue) Enqueue(job Job) error {
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		q.logger.Debug("job enqueued",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"queue_len", len(q.jobs),
			"queue_cap", cap(q.jobs))
		return nil
	default:
		// Channel is full
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close closes the job queue, preventing further job submission
func (q *JobQueue) Close() {
	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.logger.Info("job queue closed")
	}
}

// GetChannel returns a read-only channel for consuming jobs
func (q *JobQueue) GetChannel() <-chan Job {
	return q.jobs
}
