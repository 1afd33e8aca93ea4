package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/store"
)

var sessionTestColumns = []string{
	"id", "user_id", "subject", "state", "configured_minutes",
	"elapsed_minutes", "paused_at", "interruption_count", "last_activity_at",
	"started_at", "ended_at", "completed", "completion_reason",
}

func testSession(t *testing.T) *domain.FocusSession {
	t.Helper()

	now := time.Now().UTC()
	session := &domain.FocusSession{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Subject:           "math",
		State:             domain.SessionStateRunning,
		ConfiguredMinutes: 25,
		LastActivityAt:    now,
		StartedAt:         now,
	}
	require.NoError(t, session.Validate())
	return session
}

func TestSessionStoreCreate(t *testing.T) {
	db, mock := newMockDB(t)
	sessionStore := NewPostgresSessionStore(db, nil)

	mock.ExpectExec("INSERT INTO focus_sessions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, sessionStore.Create(context.Background(), testSession(t)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreGetLive(t *testing.T) {
	t.Run("found running session", func(t *testing.T) {
		db, mock := newMockDB(t)
		sessionStore := NewPostgresSessionStore(db, nil)

		userID := uuid.New()
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery("FROM focus_sessions").
			WillReturnRows(sqlmock.NewRows(sessionTestColumns).
				AddRow(id.String(), userID.String(), "math", "running", 25,
					10.5, nil, 1, now, now.Add(-15*time.Minute), nil, false, nil))

		session, err := sessionStore.GetLive(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, id, session.ID)
		assert.Equal(t, domain.SessionStateRunning, session.State)
		assert.InDelta(t, 10.5, session.ElapsedMinutes, 1e-9)
		assert.Equal(t, 1, session.InterruptionCount)
		assert.Nil(t, session.PausedAt)
		assert.Empty(t, session.CompletionReason)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("found paused session", func(t *testing.T) {
		db, mock := newMockDB(t)
		sessionStore := NewPostgresSessionStore(db, nil)

		now := time.Now().UTC()
		pausedAt := now.Add(-2 * time.Minute)

		mock.ExpectQuery("FROM focus_sessions").
			WillReturnRows(sqlmock.NewRows(sessionTestColumns).
				AddRow(uuid.New().String(), uuid.New().String(), "bio", "paused", 25,
					5.0, pausedAt, 1, now, now.Add(-10*time.Minute), nil, false, nil))

		session, err := sessionStore.GetLive(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatePaused, session.State)
		require.NotNil(t, session.PausedAt)
		assert.WithinDuration(t, pausedAt, *session.PausedAt, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no live session", func(t *testing.T) {
		db, mock := newMockDB(t)
		sessionStore := NewPostgresSessionStore(db, nil)

		mock.ExpectQuery("FROM focus_sessions").
			WillReturnError(sql.ErrNoRows)

		_, err := sessionStore.GetLive(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrSessionNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionStoreGetLiveForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	sessionStore := NewPostgresSessionStore(db, nil)

	userID := uuid.New()
	now := time.Now().UTC()

	// The locking variant must issue FOR UPDATE
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(sessionTestColumns).
			AddRow(uuid.New().String(), userID.String(), "math", "running", 25,
				0.0, nil, 0, now, now, nil, false, nil))

	session, err := sessionStore.GetLiveForUpdate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreUpdate(t *testing.T) {
	t.Run("updates existing session", func(t *testing.T) {
		db, mock := newMockDB(t)
		sessionStore := NewPostgresSessionStore(db, nil)

		mock.ExpectExec("UPDATE focus_sessions").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, sessionStore.Update(context.Background(), testSession(t)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		sessionStore := NewPostgresSessionStore(db, nil)

		mock.ExpectExec("UPDATE focus_sessions").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := sessionStore.Update(context.Background(), testSession(t))
		assert.ErrorIs(t, err, store.ErrSessionNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid session rejected before update", func(t *testing.T) {
		db, mock := newMockDB(t)
		sessionStore := NewPostgresSessionStore(db, nil)

		session := testSession(t)
		session.ElapsedMinutes = -1

		err := sessionStore.Update(context.Background(), session)
		assert.ErrorIs(t, err, domain.ErrSessionElapsedInvalid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionStoreListStartedBetween(t *testing.T) {
	db, mock := newMockDB(t)
	sessionStore := NewPostgresSessionStore(db, nil)

	userID := uuid.New()
	now := time.Now().UTC()
	ended := now.Add(-30 * time.Minute)

	mock.ExpectQuery("FROM focus_sessions").
		WillReturnRows(sqlmock.NewRows(sessionTestColumns).
			AddRow(uuid.New().String(), userID.String(), "math", "completed", 25,
				25.0, nil, 0, ended, now.Add(-time.Hour), ended, true, "timer_elapsed").
			AddRow(uuid.New().String(), userID.String(), "bio", "abandoned", 25,
				8.0, nil, 2, ended, now.Add(-2*time.Hour), ended, false, nil))

	sessions, err := sessionStore.ListStartedBetween(
		context.Background(), userID, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].Completed)
	assert.Equal(t, domain.CompletionReasonTimerElapsed, sessions[0].CompletionReason)
	assert.False(t, sessions[1].Completed)
	assert.Equal(t, 2, sessions[1].InterruptionCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
