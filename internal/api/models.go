package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UpdatePreferencesRequest defines the payload for replacing the user's
// coaching preferences. Zero values fall back to the built-in defaults.
type UpdatePreferencesRequest struct {
	PomodoroMinutes     int    `json:"pomodoro_minutes"      validate:"gte=0,lte=240"`
	ReminderLeadMinutes int    `json:"reminder_lead_minutes" validate:"gte=0,lte=10080"`
	Timezone            string `json:"timezone"              validate:"omitempty,max=64"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Subject          string `json:"subject"           validate:"omitempty,max=200"`
	Title            string `json:"title"             validate:"required,max=500"`
	DueDate          string `json:"due_date"          validate:"omitempty,datetime=2006-01-02"`
	DueTime          string `json:"due_time"          validate:"omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes" validate:"required,gt=0"`
}

// StartFocusRequest defines the payload for starting a focus session.
// A zero duration falls back to the user's preferred session length.
type StartFocusRequest struct {
	Subject         string `json:"subject"          validate:"omitempty,max=200"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0,lte=480"`
}

// ExtendFocusRequest defines the payload for extending the live session.
type ExtendFocusRequest struct {
	ExtraMinutes int `json:"extra_minutes" validate:"required,gt=0,lte=240"`
}

// CreateItemRequest defines the payload for adding one review item.
type CreateItemRequest struct {
	Subject        string `json:"subject"         validate:"omitempty,max=200"`
	Prompt         string `json:"prompt"          validate:"required"`
	ExpectedAnswer string `json:"expected_answer" validate:"required"`
}

// GenerateItemsRequest defines the payload for requesting background
// quiz generation from pasted study notes.
type GenerateItemsRequest struct {
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Notes   string `json:"notes"   validate:"required"`
}

// SubmitReviewAnswerRequest defines the payload for answering a due item.
// An empty answer is allowed; it grades as a failed review.
type SubmitReviewAnswerRequest struct {
	Answer string `json:"answer"`
}

// GenerateAcceptedResponse acknowledges an enqueued generation request.
type GenerateAcceptedResponse struct {
	Status string `json:"status"`
}
