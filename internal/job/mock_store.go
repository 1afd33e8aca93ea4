package job

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockJobStore implements the JobStore interface for testing
type MockJobStore struct {
	mutex          sync.RWMutex
	jobs           map[uuid.UUID]Job
	jobStatusTimes map[uuid.UUID]time.Time
	SaveFn         func(ctx context.Context, job Job) error
	UpdateStatusFn func(ctx context.Context, jobID uuid.UUID, status JobStatus, errorMsg string) error
}

// NewMockJobStore creates a new MockJobStore with default implementations
func NewMockJobStore() *MockJobStore {
	store := &MockJobStore{
		jobs:           make(map[uuid.UUID]Job),
		jobStatusTimes: make(map[uuid.UUID]time.Time),
	}

	store.SaveFn = func(ctx context.Context, j Job) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		mockJob, ok := j.(*MockJob)
		if !ok {
			// Wrap non-mock jobs so status updates can be recorded
			mockJob = NewMockJob(j.ID(), j.Type(), j.Payload())
			mockJob.JobStatus = j.Status()
		}

		store.jobs[j.ID()] = mockJob
		store.jobStatusTimes[j.ID()] = time.Now()
		return nil
	}

	store.UpdateStatusFn = func(ctx context.Context, jobID uuid.UUID, status JobStatus, errorMsg string) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		j, exists := store.jobs[jobID]
		if !exists {
			return nil // Simulate "not found" as a no-op for testing simplicity
		}

		mockJob := j.(*MockJob)
		mockJob.JobStatus = status
		store.jobs[jobID] = mockJob
		store.jobStatusTimes[jobID] = time.Now()
		return nil
	}

	return store
}

// SaveJob persists a job to the mock store
func (s *MockJobStore) SaveJob(ctx context.Context, j Job) error {
	return s.SaveFn(ctx, j)
}

// UpdateJobStatus updates the status of a job in the mock store
func (s *MockJobStore) UpdateJobStatus(
	ctx context.Context,
	jobID uuid.UUID,
	status JobStatus,
	errorMsg string,
) error {
	return s.UpdateStatusFn(ctx, jobID, status, errorMsg)
}

// GetPendingJobs retrieves all jobs with "pending" status
func (s *MockJobStore) GetPendingJobs(ctx context.Context) ([]Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var pendingJobs []Job
	for _, j := range s.jobs {
		if j.Status() == JobStatusPending {
			pendingJobs = append(pendingJobs, j)
		}
	}

	return pendingJobs, nil
}

// GetProcessingJobs retrieves jobs with "processing" status
func (s *MockJobStore) GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var processingJobs []Job
	now := time.Now()

	for _, j := range s.jobs {
		if j.Status() == JobStatusProcessing {
			statusTime, exists := s.jobStatusTimes[j.ID()]
			if olderThan == 0 || (exists && now.Sub(statusTime) > olderThan) {
				processingJobs = append(processingJobs, j)
			}
		}
	}

	return processingJobs, nil
}

// WithTx implements JobStore.WithTx for the mock store
// In the mock implementation, we just return the same store instance
func (s *MockJobStore) WithTx(tx *sql.Tx) JobStore {
	return s
}
