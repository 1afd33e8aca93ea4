package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/job"
	"github.com/mbecker/studycoach-api/internal/platform/logger"
	"github.com/mbecker/studycoach-api/internal/store"
)

// PostgresJobStore implements the job.JobStore interface using PostgreSQL
type PostgresJobStore struct {
	db store.DBTX
}

// NewPostgresJobStore creates a new PostgresJobStore
func NewPostgresJobStore(db store.DBTX) *PostgresJobStore {
	return &PostgresJobStore{
		db: db,
	}
}

// Ensure PostgresJobStore implements job.JobStore interface
var _ job.JobStore = (*PostgresJobStore)(nil)

// SaveJob persists a job to the database
func (s *PostgresJobStore) SaveJob(ctx context.Context, j job.Job) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO jobs (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		j.ID(),
		j.Type(),
		j.Payload(),
		j.Status(),
		now,
		now,
	)

	if err != nil {
		log.Error("failed to save job",
			"job_id", j.ID(),
			"job_type", j.Type(),
			"error", err)
		return fmt.Errorf("failed to save job to database: %w", err)
	}

	return nil
}

// UpdateJobStatus updates the status of a job in the database
func (s *PostgresJobStore) UpdateJobStatus(
	ctx context.Context,
	jobID uuid.UUID,
	status job.JobStatus,
	errorMsg string,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		time.Now().UTC(),
		jobID,
	)

	if err != nil {
		log.Error("failed to update job status",
			"job_id", jobID,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update job status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			"job_id", jobID,
			"error", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Warn("no job found with ID to update status",
			"job_id", jobID)
		return nil // Job not found, treat as no-op
	}

	return nil
}

// GetPendingJobs retrieves all jobs with "pending" status
func (s *PostgresJobStore) GetPendingJobs(ctx context.Context) ([]job.Job, error) {
	return s.getJobsByStatus(ctx, job.JobStatusPending, 0)
}

// GetProcessingJobs retrieves jobs with "processing" status
func (s *PostgresJobStore) GetProcessingJobs(
	ctx context.Context,
	olderThan time.Duration,
) ([]job.Job, error) {
	return s.getJobsByStatus(ctx, job.JobStatusProcessing, olderThan)
}

// WithTx implements job.JobStore.WithTx
func (s *PostgresJobStore) WithTx(tx *sql.Tx) job.JobStore {
	return &PostgresJobStore{
		db: tx,
	}
}

// getJobsByStatus is a helper method to get jobs by status with optional age filter
func (s *PostgresJobStore) getJobsByStatus(
	ctx context.Context,
	status job.JobStatus,
	olderThan time.Duration,
) ([]job.Job, error) {
	log := logger.FromContext(ctx)

	var query string
	var args []interface{}

	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status, error_message, created_at, updated_at
			FROM jobs
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = []interface{}{status, time.Now().UTC().Add(-olderThan)}
	} else {
		query = `
			SELECT id, type, payload, status, error_message, created_at, updated_at
			FROM jobs
			WHERE status = $1
			ORDER BY created_at ASC
		`
		args = []interface{}{status}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query jobs by status",
			"status", status,
			"error", err)
		return nil, fmt.Errorf("failed to query jobs by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []job.Job

	for rows.Next() {
		var id uuid.UUID
		var jobType string
		var payload []byte
		var jobStatus job.JobStatus
		var errorMessage sql.NullString
		var createdAt time.Time
		var updatedAt time.Time

		if err := rows.Scan(&id, &jobType, &payload, &jobStatus, &errorMessage, &createdAt, &updatedAt); err != nil {
			log.Error("failed to scan job row",
				"status", status,
				"error", err)
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}

		jobs = append(jobs, &databaseJob{
			id:           id,
			jobType:      jobType,
			payload:      payload,
			status:       jobStatus,
			errorMessage: errorMessage.String,
			createdAt:    createdAt,
			updatedAt:    updatedAt,
		})
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating job rows",
			"status", status,
			"error", err)
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return jobs, nil
}

// databaseJob implements the job.Job interface for jobs loaded from the database
type databaseJob struct {
	id           uuid.UUID
	jobType      string
	payload      []byte
	status       job.JobStatus
	errorMessage string
	createdAt    time.Time
	updatedAt    time.Time
	executeFn    func(ctx context.Context) error
}

// ID returns the job's unique identifier
func (j *databaseJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier
func (j *databaseJob) Type() string {
	return j.jobType
}

// Payload returns the job data as a byte slice
func (j *databaseJob) Payload() []byte {
	return j.payload
}

// Status returns the current job status
func (j *databaseJob) Status() job.JobStatus {
	return j.status
}

// SetExecuteFn installs the execution logic for a recovered job. The job
// factory rebuilds the closure from the persisted type and payload before
// the runner executes it.
func (j *databaseJob) SetExecuteFn(fn func(ctx context.Context) error) {
	j.executeFn = fn
}

// Execute runs the job logic. Recovered jobs without a rebuilt execution
// function fail rather than silently completing.
func (j *databaseJob) Execute(ctx context.Context) error {
	if j.executeFn == nil {
		return fmt.Errorf("no execution function set for recovered job %s of type %s", j.id, j.jobType)
	}
	return j.executeFn(ctx)
}
