package srs

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// Common errors
var (
	ErrNilState       = errors.New("review state cannot be nil")
	ErrInvalidQuality = errors.New("invalid review quality")
)

// DueItem pairs a review item with its schedule for quiz selection.
type DueItem struct {
	Item  *domain.ReviewItem
	State *domain.ReviewState
}

// Service defines the interface for spaced-repetition operations
type Service interface {
	// Review computes a new schedule from a graded review outcome
	Review(
		state *domain.ReviewState,
		quality domain.ReviewQuality,
		today domain.Date,
		now time.Time,
	) (*domain.ReviewState, error)

	// DueItems selects the items due on or before today, least-mastered
	// and most-overdue first, truncated to limit (or the default when
	// limit is not positive). An empty subject matches all subjects.
	DueItems(
		items []*domain.ReviewItem,
		states []*domain.ReviewState,
		subject string,
		today domain.Date,
		limit int,
	) []DueItem

	// Score grades a free-text answer against the expected answer
	Score(expectedAnswer, userAnswer string) domain.ReviewQuality
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Review implements the Service interface for advancing an item's schedule
func (s *defaultService) Review(
	state *domain.ReviewState,
	quality domain.ReviewQuality,
	today domain.Date,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !quality.IsValid() {
		return nil, ErrInvalidQuality
	}

	return calculateNextState(state, quality, today, now, s.params), nil
}

// DueItems implements the Service interface for due-item selection
func (s *defaultService) DueItems(
	items []*domain.ReviewItem,
	states []*domain.ReviewState,
	subject string,
	today domain.Date,
	limit int,
) []DueItem {
	if limit <= 0 {
		limit = s.params.DefaultDueLimit
	}

	stateByItem := make(map[uuid.UUID]*domain.ReviewState, len(states))
	for _, st := range states {
		stateByItem[st.ItemID] = st
	}

	seen := make(map[uuid.UUID]bool, len(items))
	due := make([]DueItem, 0, len(items))
	for _, item := range items {
		if item == nil || seen[item.ID] {
			continue
		}
		seen[item.ID] = true

		if subject != "" && item.Subject != subject {
			continue
		}

		st, ok := stateByItem[item.ID]
		if !ok || st.NextReviewDate.After(today) {
			continue
		}

		due = append(due, DueItem{Item: item, State: st})
	}

	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].State.NextReviewDate.Equal(due[j].State.NextReviewDate) {
			return due[i].State.NextReviewDate.Before(due[j].State.NextReviewDate)
		}
		return due[i].State.Repetitions < due[j].State.Repetitions
	})

	if len(due) > limit {
		due = due[:limit]
	}

	return due
}

// Score implements the Service interface for answer grading
func (s *defaultService) Score(expectedAnswer, userAnswer string) domain.ReviewQuality {
	return scoreAnswer(expectedAnswer, userAnswer, s.params)
}
