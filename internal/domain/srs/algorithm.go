package srs

import (
	"math"
	"time"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease-factor update for a
// review graded q on the 0-5 scale.
//
// The ease factor represents item difficulty - higher values mean the
// item is easier and intervals will grow faster. The update is applied
// on every review, including failures, and the result is floored at
// params.MinEaseFactor.
//
// Formula:
//
//	EF' = EF + (0.1 - (5 - q) * (0.08 + (5 - q) * 0.02))
func calculateNewEaseFactor(currentEF float64, grade int, params *Params) float64 {
	diff := float64(5 - grade)
	newEF := currentEF + (0.1 - diff*(0.08+diff*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days for a
// successful (partial or pass) review.
//
// The first repetition waits one day, the second waits six, and every
// repetition after that multiplies the previous interval by the new
// ease factor, rounding half away from zero. The result is never below
// one day.
func calculateNewInterval(
	previousInterval int,
	repetitions int,
	easeFactor float64,
	params *Params,
) int {
	var interval int
	switch repetitions {
	case 1:
		interval = params.FirstInterval
	case 2:
		interval = params.SecondInterval
	default:
		interval = roundHalfAway(float64(previousInterval) * easeFactor)
	}

	if interval < domain.MinIntervalDays {
		interval = domain.MinIntervalDays
	}

	return interval
}

// roundHalfAway rounds to the nearest integer with halves rounded away
// from zero, e.g. 6.5 -> 7.
func roundHalfAway(v float64) int {
	return int(math.Round(v))
}

// calculateNextState creates a new ReviewState with updated values based
// on the review quality.
//
// This function follows the immutable update pattern - instead of
// modifying the existing state object, it creates and returns a new one.
// The ease factor is updated before branching on the quality, so a
// failure still moves EF (never below the floor). A failure resets
// repetitions to zero and schedules the item for tomorrow; a partial or
// passing review advances the repetition count and grows the interval.
func calculateNextState(
	state *domain.ReviewState,
	quality domain.ReviewQuality,
	today domain.Date,
	now time.Time,
	params *Params,
) *domain.ReviewState {
	newState := &domain.ReviewState{
		ItemID:         state.ItemID,
		UserID:         state.UserID,
		EaseFactor:     state.EaseFactor,
		IntervalDays:   state.IntervalDays,
		Repetitions:    state.Repetitions,
		NextReviewDate: state.NextReviewDate,
		LastResult:     state.LastResult,
		LastReviewedAt: state.LastReviewedAt,
		CreatedAt:      state.CreatedAt,
		UpdatedAt:      state.UpdatedAt,
	}

	grade := params.QualityGrade[quality]
	newState.EaseFactor = calculateNewEaseFactor(state.EaseFactor, grade, params)

	if quality == domain.ReviewQualityFail {
		newState.Repetitions = 0
		newState.IntervalDays = domain.MinIntervalDays
	} else {
		newState.Repetitions = state.Repetitions + 1
		newState.IntervalDays = calculateNewInterval(
			state.IntervalDays,
			newState.Repetitions,
			newState.EaseFactor,
			params,
		)
	}

	newState.NextReviewDate = today.AddDays(newState.IntervalDays)
	newState.LastResult = quality
	reviewedAt := now
	newState.LastReviewedAt = &reviewedAt
	newState.UpdatedAt = now

	return newState
}
