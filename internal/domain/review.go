package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewQuality represents the graded outcome of one knowledge review.
type ReviewQuality string

// Possible review quality values
const (
	ReviewQualityFail    ReviewQuality = "fail"
	ReviewQualityPartial ReviewQuality = "partial"
	ReviewQualityPass    ReviewQuality = "pass"
)

// IsValid reports whether q is one of the recognized quality values.
func (q ReviewQuality) IsValid() bool {
	switch q {
	case ReviewQualityFail, ReviewQualityPartial, ReviewQualityPass:
		return true
	default:
		return false
	}
}

// Review validation errors
var (
	// ErrReviewItemIDEmpty is returned when a review item ID is empty or nil.
	ErrReviewItemIDEmpty = errors.New("review item ID cannot be empty")

	// ErrReviewItemUserIDEmpty is returned when a review item's user ID is empty or nil.
	ErrReviewItemUserIDEmpty = errors.New("review item user ID cannot be empty")

	// ErrReviewItemPromptEmpty is returned when a review item's prompt is empty.
	ErrReviewItemPromptEmpty = errors.New("review item prompt cannot be empty")

	// ErrInvalidReviewQuality is returned when a review quality is not valid.
	ErrInvalidReviewQuality = errors.New("invalid review quality")

	// ErrInvalidEaseFactor is returned when an ease factor is below the floor.
	ErrInvalidEaseFactor = errors.New("ease factor cannot be below 1.3")

	// ErrInvalidIntervalDays is returned when a review interval is below one day.
	ErrInvalidIntervalDays = errors.New("interval days must be at least 1")

	// ErrInvalidRepetitions is returned when a repetition count is negative.
	ErrInvalidRepetitions = errors.New("repetitions cannot be negative")
)

// Spaced-repetition defaults for newly created review state.
const (
	DefaultEaseFactor  = 2.5
	MinEaseFactor      = 1.3
	MinIntervalDays    = 1
	DefaultIntervalDay = 1
)

// ReviewItem is one quiz question in the student's question bank.
type ReviewItem struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Subject        string    `json:"subject"`
	Prompt         string    `json:"prompt"`
	ExpectedAnswer string    `json:"expected_answer"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewReviewItem creates a new ReviewItem.
// Returns an error if validation fails.
func NewReviewItem(userID uuid.UUID, subject, prompt, expectedAnswer string, now time.Time) (*ReviewItem, error) {
	item := &ReviewItem{
		ID:             uuid.New(),
		UserID:         userID,
		Subject:        subject,
		Prompt:         prompt,
		ExpectedAnswer: expectedAnswer,
		CreatedAt:      now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the ReviewItem has valid data.
func (i *ReviewItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrReviewItemIDEmpty
	}

	if i.UserID == uuid.Nil {
		return ErrReviewItemUserIDEmpty
	}

	if i.Prompt == "" {
		return ErrReviewItemPromptEmpty
	}

	return nil
}

// ReviewState tracks the spaced-repetition schedule of one review item
// for one user. It implements the state side of an SM-2 variant: the
// update rule itself lives in the srs package.
type ReviewState struct {
	ItemID         uuid.UUID     `json:"item_id"`
	UserID         uuid.UUID     `json:"user_id"`
	EaseFactor     float64       `json:"ease_factor"`
	IntervalDays   int           `json:"interval_days"`
	Repetitions    int           `json:"repetitions"`
	NextReviewDate Date          `json:"next_review_date"`
	LastResult     ReviewQuality `json:"last_result,omitempty"` // empty until first review
	LastReviewedAt *time.Time    `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewReviewState creates the default schedule for a freshly added item:
// ease 2.5, one-day interval, due immediately.
func NewReviewState(userID, itemID uuid.UUID, today Date, now time.Time) (*ReviewState, error) {
	state := &ReviewState{
		ItemID:         itemID,
		UserID:         userID,
		EaseFactor:     DefaultEaseFactor,
		IntervalDays:   DefaultIntervalDay,
		Repetitions:    0,
		NextReviewDate: today,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the ReviewState has valid data and that the
// scheduling invariants hold.
func (s *ReviewState) Validate() error {
	if s.ItemID == uuid.Nil {
		return ErrReviewItemIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrReviewItemUserIDEmpty
	}

	if s.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	if s.IntervalDays < MinIntervalDays {
		return ErrInvalidIntervalDays
	}

	if s.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	if s.LastResult != "" && !s.LastResult.IsValid() {
		return ErrInvalidReviewQuality
	}

	return nil
}
