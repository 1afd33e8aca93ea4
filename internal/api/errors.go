package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mbecker/studycoach-api/internal/api/shared"
	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/domain/match"
	"github.com/mbecker/studycoach-api/internal/service"
	"github.com/mbecker/studycoach-api/internal/service/auth"
	"github.com/mbecker/studycoach-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrReviewItemNotFound),
		errors.Is(err, store.ErrReviewStateNotFound),
		errors.Is(err, match.ErrNoMatch):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, domain.ErrStateConflict):
		return http.StatusConflict

	// Ambiguous subject names need disambiguation, not a retry
	case errors.Is(err, match.ErrAmbiguous):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrInvalidPreferences),
		errors.Is(err, domain.ErrTaskTitleEmpty),
		errors.Is(err, domain.ErrTaskEstimateInvalid),
		errors.Is(err, domain.ErrTaskDueTimeInvalid),
		errors.Is(err, domain.ErrSessionDurationInvalid),
		errors.Is(err, domain.ErrReviewItemPromptEmpty),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrEmptyNotes):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrSessionNotFound):
		return "No live focus session"

	case errors.Is(err, store.ErrReviewItemNotFound):
		return "Review item not found"

	case errors.Is(err, store.ErrReviewStateNotFound):
		return "Review schedule not found"

	case errors.Is(err, match.ErrNoMatch):
		return "No subject matches that name"

	case errors.Is(err, match.ErrAmbiguous):
		return "Subject name matches more than one subject"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrStateConflict):
		return "A focus session is already in progress"

	// Bad request errors
	case errors.Is(err, service.ErrEmptyNotes):
		return "Notes cannot be empty"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	case errors.Is(err, domain.ErrInvalidPreferences):
		return "Invalid preferences"

	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email format"

	case errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrInvalidPassword):
		return "Password does not meet requirements"

	case errors.Is(err, domain.ErrTaskTitleEmpty):
		return "Task title cannot be empty"

	case errors.Is(err, domain.ErrTaskEstimateInvalid):
		return "Task estimate must be positive"

	case errors.Is(err, domain.ErrTaskDueTimeInvalid):
		return "Task due time must be in HH:MM format"

	case errors.Is(err, domain.ErrSessionDurationInvalid):
		return "Session duration must be positive"

	case errors.Is(err, domain.ErrReviewItemPromptEmpty):
		return "Prompt cannot be empty"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to its status code and safe message and
// writes the response, logging the full error server side. A non-empty
// defaultMsg overrides the safe message for generic server errors, so
// handlers can name the failed operation without exposing the cause.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)

	if defaultMsg != "" && statusCode == http.StatusInternalServerError {
		safeMessage = defaultMsg
	}

	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt", "gte":
		return "out of range"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
