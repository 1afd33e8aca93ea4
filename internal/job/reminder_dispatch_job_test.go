package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/studycoach-api/internal/domain"
)

type mockReminderSource struct {
	tasks   []*domain.Task
	listErr error
	cleared []uuid.UUID
	clearFn func(ctx context.Context, taskID uuid.UUID) error
}

func (m *mockReminderSource) ListDueReminders(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*domain.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.tasks, nil
}

func (m *mockReminderSource) ClearReminder(ctx context.Context, taskID uuid.UUID) error {
	if m.clearFn != nil {
		return m.clearFn(ctx, taskID)
	}
	m.cleared = append(m.cleared, taskID)
	return nil
}

type mockPushSender struct {
	sent   []uuid.UUID
	sendFn func(ctx context.Context, task *domain.Task) error
}

func (m *mockPushSender) SendTaskReminder(ctx context.Context, task *domain.Task) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, task)
	}
	m.sent = append(m.sent, task.ID)
	return nil
}

func dueTask(t *testing.T, title string) *domain.Task {
	t.Helper()

	due := domain.NewDate(2026, time.March, 10)
	task, err := domain.NewTask(
		uuid.New(), "math", title, &due, "16:00", 30, time.Now().UTC())
	require.NoError(t, err)

	reminderAt := time.Date(2026, time.March, 9, 15, 0, 0, 0, time.UTC)
	task.ReminderAt = &reminderAt
	return task
}

func TestNewReminderDispatchJob(t *testing.T) {
	t.Parallel()

	logger := setupTestLogger()
	now := time.Now().UTC()

	_, err := NewReminderDispatchJob(now, nil, &mockPushSender{}, logger)
	assert.ErrorIs(t, err, ErrNilReminderSource)

	_, err = NewReminderDispatchJob(now, &mockReminderSource{}, nil, logger)
	assert.ErrorIs(t, err, ErrNilPushSender)

	j, err := NewReminderDispatchJob(now, &mockReminderSource{}, &mockPushSender{}, logger)
	require.NoError(t, err)
	assert.Equal(t, JobTypeReminderDispatch, j.Type())
	assert.Equal(t, JobStatusPending, j.Status())
}

func TestReminderDispatchJob_Execute(t *testing.T) {
	t.Parallel()

	t.Run("delivers and clears due reminders", func(t *testing.T) {
		t.Parallel()

		task1 := dueTask(t, "algebra problem set")
		task2 := dueTask(t, "read chapter 4")
		source := &mockReminderSource{tasks: []*domain.Task{task1, task2}}
		sender := &mockPushSender{}

		j, err := NewReminderDispatchJob(
			time.Now().UTC(), source, sender, setupTestLogger())
		require.NoError(t, err)

		require.NoError(t, j.Execute(context.Background()))
		assert.Equal(t, JobStatusCompleted, j.Status())
		assert.ElementsMatch(t, []uuid.UUID{task1.ID, task2.ID}, sender.sent)
		assert.ElementsMatch(t, []uuid.UUID{task1.ID, task2.ID}, source.cleared)
	})

	t.Run("nothing due", func(t *testing.T) {
		t.Parallel()

		source := &mockReminderSource{}
		sender := &mockPushSender{}

		j, err := NewReminderDispatchJob(
			time.Now().UTC(), source, sender, setupTestLogger())
		require.NoError(t, err)

		require.NoError(t, j.Execute(context.Background()))
		assert.Equal(t, JobStatusCompleted, j.Status())
		assert.Empty(t, sender.sent)
	})

	t.Run("list failure fails the job", func(t *testing.T) {
		t.Parallel()

		source := &mockReminderSource{listErr: errors.New("connection refused")}

		j, err := NewReminderDispatchJob(
			time.Now().UTC(), source, &mockPushSender{}, setupTestLogger())
		require.NoError(t, err)

		err = j.Execute(context.Background())
		assert.Error(t, err)
		assert.Equal(t, JobStatusFailed, j.Status())
	})

	t.Run("failed send leaves the reminder for the next sweep", func(t *testing.T) {
		t.Parallel()

		good := dueTask(t, "deliverable reminder")
		bad := dueTask(t, "undeliverable reminder")
		source := &mockReminderSource{tasks: []*domain.Task{bad, good}}
		sender := &mockPushSender{}
		sender.sendFn = func(ctx context.Context, task *domain.Task) error {
			if task.ID == bad.ID {
				return errors.New("device unreachable")
			}
			sender.sent = append(sender.sent, task.ID)
			return nil
		}

		j, err := NewReminderDispatchJob(
			time.Now().UTC(), source, sender, setupTestLogger())
		require.NoError(t, err)

		// One failed delivery must not fail the sweep
		require.NoError(t, j.Execute(context.Background()))
		assert.Equal(t, JobStatusCompleted, j.Status())
		assert.Equal(t, []uuid.UUID{good.ID}, sender.sent)
		assert.Equal(t, []uuid.UUID{good.ID}, source.cleared)
	})
}
