package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("student@example.com", "a-long-enough-password")

		require.NoError(t, err)
		assert.Equal(t, "student@example.com", user.Email)
		assert.Equal(t, "a-long-enough-password", user.Password)
		assert.Empty(t, user.HashedPassword)
	})

	testCases := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "empty email",
			email:    "",
			password: "a-long-enough-password",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "malformed email",
			email:    "not-an-email",
			password: "a-long-enough-password",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "password too short",
			email:    "student@example.com",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			email:    "student@example.com",
			password: strings.Repeat("x", 73),
			wantErr:  ErrPasswordTooLong,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewUser(tc.email, tc.password)

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateLoadedFromStore(t *testing.T) {
	t.Parallel()

	// A user loaded from the database carries only the hash.
	user, err := NewUser("student@example.com", "a-long-enough-password")
	require.NoError(t, err)

	user.Password = ""
	user.HashedPassword = "$2a$10$fakehashfakehashfakehash"
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}

func TestUserJSONNeverExposesPasswords(t *testing.T) {
	t.Parallel()

	user, err := NewUser("student@example.com", "a-long-enough-password")
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$fakehashfakehashfakehash"

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "a-long-enough-password")
	assert.NotContains(t, string(data), "$2a$10$")
}

func TestPreferencesDefaults(t *testing.T) {
	t.Parallel()

	var p Preferences
	assert.Equal(t, DefaultPomodoroMinutes, p.EffectivePomodoroMinutes())
	assert.Equal(t, DefaultReminderLeadMinutes, p.EffectiveReminderLeadMinutes())

	p = Preferences{PomodoroMinutes: 50, ReminderLeadMinutes: 120}
	assert.Equal(t, 50, p.EffectivePomodoroMinutes())
	assert.Equal(t, 120, p.EffectiveReminderLeadMinutes())
}

func TestPreferencesValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Preferences{}.Validate())
	assert.NoError(t, Preferences{PomodoroMinutes: 25}.Validate())
	assert.ErrorIs(t, Preferences{PomodoroMinutes: -1}.Validate(), ErrInvalidPreferences)
	assert.ErrorIs(t, Preferences{ReminderLeadMinutes: -5}.Validate(), ErrInvalidPreferences)
}
