package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/store"
)

// newMockDB creates a sqlmock database for store unit tests.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func testUser(t *testing.T) *domain.User {
	t.Helper()

	user, err := domain.NewUser("student@example.com", "averysecurepassword")
	require.NoError(t, err)
	return user
}

func TestUserStoreCreate(t *testing.T) {
	t.Run("hashes password and inserts", func(t *testing.T) {
		db, mock := newMockDB(t)
		// MinCost keeps the hashing fast in tests
		userStore := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user := testUser(t)
		plaintext := user.Password

		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := userStore.Create(context.Background(), user)
		require.NoError(t, err)

		assert.Empty(t, user.Password, "plaintext password must be cleared")
		require.NotEmpty(t, user.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(user.HashedPassword), []byte(plaintext)))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		userStore := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

		err := userStore.Create(context.Background(), testUser(t))
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid user is rejected before touching the database", func(t *testing.T) {
		db, mock := newMockDB(t)
		userStore := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user := testUser(t)
		user.Email = ""

		err := userStore.Create(context.Background(), user)
		assert.ErrorIs(t, err, domain.ErrEmptyEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStoreGetByID(t *testing.T) {
	userColumns := []string{
		"id", "email", "display_name", "hashed_password",
		"pomodoro_minutes", "reminder_lead_minutes", "timezone",
		"created_at", "updated_at",
	}

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		userStore := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		id := uuid.New()
		now := time.Now().UTC()
		mock.ExpectQuery("FROM users").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(id.String(), "student@example.com", "Sam", "hashed",
					25, 1440, "Europe/Berlin", now, now))

		user, err := userStore.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "student@example.com", user.Email)
		assert.Equal(t, 25, user.Preferences.PomodoroMinutes)
		assert.Equal(t, "Europe/Berlin", user.Preferences.Timezone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		userStore := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery("FROM users").
			WillReturnError(sql.ErrNoRows)

		_, err := userStore.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStoreUpdate(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		userStore := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user := testUser(t)

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := userStore.Update(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rehashes new plaintext password", func(t *testing.T) {
		db, mock := newMockDB(t)
		userStore := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user := testUser(t)
		user.Password = "abrandnewpassword42"

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := userStore.Update(context.Background(), user)
		require.NoError(t, err)
		assert.Empty(t, user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(user.HashedPassword), []byte("abrandnewpassword42")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStoreDelete(t *testing.T) {
	t.Run("deletes existing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		userStore := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		id := uuid.New()
		mock.ExpectExec("DELETE FROM users").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, userStore.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		userStore := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectExec("DELETE FROM users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := userStore.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
