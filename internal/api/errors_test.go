package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/domain/match"
	"github.com/mbecker/studycoach-api/internal/service"
	"github.com/mbecker/studycoach-api/internal/service/auth"
	"github.com/mbecker/studycoach-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"session not found", store.ErrSessionNotFound, http.StatusNotFound},
		{"item not found", store.ErrReviewItemNotFound, http.StatusNotFound},
		{"state not found", store.ErrReviewStateNotFound, http.StatusNotFound},
		{"no subject match", match.ErrNoMatch, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"state conflict", domain.ErrStateConflict, http.StatusConflict},
		{"ambiguous subject", match.ErrAmbiguous, http.StatusUnprocessableEntity},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"invalid preferences", domain.ErrInvalidPreferences, http.StatusBadRequest},
		{"invalid email", domain.ErrInvalidEmail, http.StatusBadRequest},
		{"password too short", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"task due time invalid", domain.ErrTaskDueTimeInvalid, http.StatusBadRequest},
		{"prompt empty", domain.ErrReviewItemPromptEmpty, http.StatusBadRequest},
		{"empty notes", service.ErrEmptyNotes, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToStatusCode_WrappedErrors(t *testing.T) {
	// Mapping has to survive fmt.Errorf wrapping since services wrap
	// store errors with operation context.
	wrapped := fmt.Errorf("failed to complete task: %w", store.ErrTaskNotFound)
	assert.Equal(t, http.StatusNotFound, MapErrorToStatusCode(wrapped))

	doubleWrapped := fmt.Errorf("handler: %w", fmt.Errorf("service: %w", service.ErrNotOwned))
	assert.Equal(t, http.StatusForbidden, MapErrorToStatusCode(doubleWrapped))

	ambiguous := &match.AmbiguousError{Candidates: []string{"advanced math", "advanced physics"}}
	assert.Equal(t, http.StatusUnprocessableEntity, MapErrorToStatusCode(ambiguous))
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"invalid token", auth.ErrInvalidToken, "Invalid token"},
		{"invalid credentials", service.ErrInvalidCredentials, "Invalid credentials"},
		{"not owned", service.ErrNotOwned, "You do not own this resource"},
		{"task not found", store.ErrTaskNotFound, "Task not found"},
		{"no live session", store.ErrSessionNotFound, "No live focus session"},
		{"no subject match", match.ErrNoMatch, "No subject matches that name"},
		{"ambiguous subject", match.ErrAmbiguous, "Subject name matches more than one subject"},
		{"email exists", store.ErrEmailExists, "Email already exists"},
		{"state conflict", domain.ErrStateConflict, "A focus session is already in progress"},
		{"empty notes", service.ErrEmptyNotes, "Notes cannot be empty"},
		{"unknown error", errors.New("pq: duplicate key value"), "An unexpected error occurred"},
		{"nil error", nil, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestGetSafeErrorMessage_NeverEchoesInternalDetail(t *testing.T) {
	// Raw error strings carry internals like SQL fragments or file
	// paths; none of that may reach the client.
	internal := errors.New(`pq: syntax error at or near "SELECT * FROM users"`)
	msg := GetSafeErrorMessage(internal)
	assert.NotContains(t, msg, "SELECT")
	assert.NotContains(t, msg, "pq:")

	wrapped := fmt.Errorf("query /var/lib/app/secret.db: %w", internal)
	msg = GetSafeErrorMessage(wrapped)
	assert.NotContains(t, msg, "secret")
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		defaultMsg      string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "mapped error keeps safe message",
			err:             store.ErrTaskNotFound,
			defaultMsg:      "Failed to get task",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Task not found",
		},
		{
			name:            "unknown error uses default message",
			err:             errors.New("dial tcp 10.0.0.3:5432: connection refused"),
			defaultMsg:      "Failed to get task",
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Failed to get task",
		},
		{
			name:            "unknown error without default",
			err:             errors.New("boom"),
			defaultMsg:      "",
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			HandleAPIError(rr, req, tc.err, tc.defaultMsg)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedMessage, errorMessage(t, rr))
			assert.NotContains(t, rr.Body.String(), tc.err.Error())
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		expected string
	}{
		{
			name:     "required field",
			errMsg:   "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
			expected: "Invalid Email: required field",
		},
		{
			name:     "email format",
			errMsg:   "Key: 'RegisterRequest.Email' Error:Field validation for 'Email' failed on the 'email' tag",
			expected: "Invalid Email: invalid email format",
		},
		{
			name:     "min length",
			errMsg:   "Key: 'RegisterRequest.Password' Error:Field validation for 'Password' failed on the 'min' tag",
			expected: "Invalid Password: too short",
		},
		{
			name:     "non validation error",
			errMsg:   "some other error",
			expected: "Validation error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeValidationError(errors.New(tc.errMsg)))
		})
	}
}
