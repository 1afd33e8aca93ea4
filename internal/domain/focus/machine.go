// Package focus implements the finite-state machine behind one timed
// study session.
//
// Every transition is a pure function: it takes the current session
// snapshot plus an explicit now, and returns a new snapshot without
// mutating its input. The caller owns persistence and must serialize
// writes per user; the machine never reads a clock of its own.
package focus

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// StartConflictError is returned by Start when the user already has a
// live session. The existing session is attached so the caller can
// offer to resume it instead.
type StartConflictError struct {
	Existing *domain.FocusSession
}

func (e *StartConflictError) Error() string {
	return fmt.Sprintf("a focus session is already %s", e.Existing.State)
}

func (e *StartConflictError) Unwrap() error {
	return domain.ErrStateConflict
}

// Start begins a new running session.
//
// current is the user's live session snapshot, or nil when idle. If a
// Running or Paused session exists the result is a StartConflictError
// carrying it, and nothing is created.
func Start(
	userID uuid.UUID,
	subject string,
	durationMinutes int,
	current *domain.FocusSession,
	now time.Time,
) (*domain.FocusSession, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d",
			domain.ErrInvalidInput, durationMinutes)
	}

	if current != nil && current.IsLive() {
		return nil, &StartConflictError{Existing: current}
	}

	session := &domain.FocusSession{
		ID:                uuid.New(),
		UserID:            userID,
		Subject:           subject,
		State:             domain.SessionStateRunning,
		ConfiguredMinutes: durationMinutes,
		ElapsedMinutes:    0,
		InterruptionCount: 0,
		LastActivityAt:    now,
		StartedAt:         now,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Pause suspends a running session and counts the interruption.
//
// The interruption is counted at the moment focus breaks, not at
// resume. If the timer has already elapsed, the session auto-completes
// instead and the completed snapshot is returned.
func Pause(session *domain.FocusSession, now time.Time) (*domain.FocusSession, error) {
	if session == nil || session.State != domain.SessionStateRunning {
		return nil, stateConflict(session, "pause")
	}

	next := flush(session, now)
	if next.IsTerminal() {
		return next, nil
	}

	next.State = domain.SessionStatePaused
	pausedAt := now
	next.PausedAt = &pausedAt
	next.InterruptionCount++

	return next, nil
}

// Resume restarts a paused session. Time spent paused never counts
// toward the timer.
func Resume(session *domain.FocusSession, now time.Time) (*domain.FocusSession, error) {
	if session == nil || session.State != domain.SessionStatePaused {
		return nil, stateConflict(session, "resume")
	}

	next := session.Clone()
	next.State = domain.SessionStateRunning
	next.PausedAt = nil
	next.LastActivityAt = now

	return next, nil
}

// Extend adds extra minutes to the configured duration of a live
// session without changing its state. If a running session's timer has
// already elapsed, it auto-completes and the extension is discarded.
func Extend(session *domain.FocusSession, extraMinutes int, now time.Time) (*domain.FocusSession, error) {
	if extraMinutes <= 0 {
		return nil, fmt.Errorf("%w: extension must be positive, got %d",
			domain.ErrInvalidInput, extraMinutes)
	}

	if session == nil || !session.IsLive() {
		return nil, stateConflict(session, "extend")
	}

	next := flush(session, now)
	if next.IsTerminal() {
		return next, nil
	}

	next.ConfiguredMinutes += extraMinutes

	return next, nil
}

// Complete finishes a live session, flushing any running interval into
// the elapsed total.
func Complete(session *domain.FocusSession, now time.Time) (*domain.FocusSession, error) {
	if session == nil || !session.IsLive() {
		return nil, stateConflict(session, "complete")
	}

	next := flush(session, now)
	if next.IsTerminal() {
		return next, nil
	}

	finalize(next, domain.SessionStateCompleted, now)

	return next, nil
}

// Abandon ends a live session without credit for finishing. Elapsed
// time is still flushed, so an abandoned session keeps the minutes it
// earned.
func Abandon(session *domain.FocusSession, now time.Time) (*domain.FocusSession, error) {
	if session == nil || !session.IsLive() {
		return nil, stateConflict(session, "abandon")
	}

	next := flush(session, now)
	if next.IsTerminal() {
		return next, nil
	}

	finalize(next, domain.SessionStateAbandoned, now)

	return next, nil
}

// IsExpired reports whether a live session has gone stale: more than
// ttlMinutes since its last activity. The caller treats an expired
// session as "no active session"; the machine never discards state on
// its own. A non-positive ttl falls back to the default.
func IsExpired(session *domain.FocusSession, now time.Time, ttlMinutes int) bool {
	if session == nil || !session.IsLive() {
		return false
	}

	if ttlMinutes <= 0 {
		ttlMinutes = domain.DefaultSessionTTLMinutes
	}

	return now.Sub(session.LastActivityAt) > time.Duration(ttlMinutes)*time.Minute
}

// RemainingMinutes returns how much configured time is left, flushing
// the current running stretch first. Never negative.
func RemainingMinutes(session *domain.FocusSession, now time.Time) float64 {
	if session == nil {
		return 0
	}

	elapsed := session.ElapsedMinutes
	if session.State == domain.SessionStateRunning {
		elapsed += now.Sub(session.LastActivityAt).Minutes()
	}

	remaining := float64(session.ConfiguredMinutes) - elapsed
	if remaining < 0 {
		return 0
	}

	return remaining
}

// flush clones the session and folds the current running stretch into
// ElapsedMinutes. If the flushed total reaches the configured duration
// while running, the clone auto-completes with reason "timer_elapsed".
func flush(session *domain.FocusSession, now time.Time) *domain.FocusSession {
	next := session.Clone()

	if next.State != domain.SessionStateRunning {
		return next
	}

	next.ElapsedMinutes += now.Sub(next.LastActivityAt).Minutes()
	next.LastActivityAt = now

	if next.ElapsedMinutes >= float64(next.ConfiguredMinutes) {
		finalize(next, domain.SessionStateCompleted, now)
		next.CompletionReason = domain.CompletionReasonTimerElapsed
	}

	return next
}

// finalize closes a session in the given terminal state. Elapsed time
// is clamped to the configured duration so a completed session never
// reports more focus than was asked for.
func finalize(next *domain.FocusSession, state domain.SessionState, now time.Time) {
	if next.ElapsedMinutes > float64(next.ConfiguredMinutes) {
		next.ElapsedMinutes = float64(next.ConfiguredMinutes)
	}

	next.State = state
	next.Completed = state == domain.SessionStateCompleted
	next.PausedAt = nil
	endedAt := now
	next.EndedAt = &endedAt
}

// stateConflict builds the error for a transition attempted from the
// wrong state.
func stateConflict(session *domain.FocusSession, op string) error {
	if session == nil {
		return fmt.Errorf("%w: no active session to %s", domain.ErrStateConflict, op)
	}
	return fmt.Errorf("%w: cannot %s a %s session", domain.ErrStateConflict, op, session.State)
}
