package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Now().UTC()
	due := NewDate(2025, time.March, 14)

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(userID, "math", "Finish problem set 4", &due, "16:30", 45, now)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, TaskStatusNotStarted, task.Status)
		assert.Equal(t, &due, task.DueDate)
		assert.Equal(t, "16:30", task.DueTime)
		assert.Equal(t, now, task.CreatedAt)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("undated task is allowed", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(userID, "history", "Read chapter 9", nil, "", 30, now)

		require.NoError(t, err)
		assert.Nil(t, task.DueDate)
	})

	testCases := []struct {
		name      string
		userID    uuid.UUID
		title     string
		dueTime   string
		estimated int
		wantErr   error
	}{
		{
			name:      "empty user ID",
			userID:    uuid.Nil,
			title:     "Read chapter 9",
			estimated: 30,
			wantErr:   ErrTaskUserIDEmpty,
		},
		{
			name:      "empty title",
			userID:    userID,
			title:     "",
			estimated: 30,
			wantErr:   ErrTaskTitleEmpty,
		},
		{
			name:      "zero estimate",
			userID:    userID,
			title:     "Read chapter 9",
			estimated: 0,
			wantErr:   ErrTaskEstimateInvalid,
		},
		{
			name:      "negative estimate",
			userID:    userID,
			title:     "Read chapter 9",
			estimated: -15,
			wantErr:   ErrTaskEstimateInvalid,
		},
		{
			name:      "malformed due time",
			userID:    userID,
			title:     "Read chapter 9",
			dueTime:   "4pm",
			estimated: 30,
			wantErr:   ErrTaskDueTimeInvalid,
		},
		{
			name:      "due time hour out of range",
			userID:    userID,
			title:     "Read chapter 9",
			dueTime:   "25:00",
			estimated: 30,
			wantErr:   ErrTaskDueTimeInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewTask(tc.userID, "math", tc.title, nil, tc.dueTime, tc.estimated, now)

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTaskValidateStatus(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "math", "Finish problem set 4", nil, "", 45, time.Now().UTC())
	require.NoError(t, err)

	task.Status = TaskStatus("paused")

	assert.ErrorIs(t, task.Validate(), ErrTaskStatusInvalid)
}

func TestTaskIsCompleted(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "math", "Finish problem set 4", nil, "", 45, time.Now().UTC())
	require.NoError(t, err)

	assert.False(t, task.IsCompleted())

	task.Status = TaskStatusCompleted
	assert.True(t, task.IsCompleted())
}
