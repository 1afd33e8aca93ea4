package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionState represents the state of a timed focus session.
// "Idle" has no representation here: an idle user simply has no live
// session snapshot persisted.
type SessionState string

// Possible focus session states
const (
	SessionStateRunning   SessionState = "running"
	SessionStatePaused    SessionState = "paused"
	SessionStateCompleted SessionState = "completed"
	SessionStateAbandoned SessionState = "abandoned"
)

// CompletionReasonTimerElapsed marks sessions that the machine closed on
// its own because the flushed elapsed time reached the configured duration.
const CompletionReasonTimerElapsed = "timer_elapsed"

// DefaultSessionTTLMinutes is the inactivity threshold after which a live
// session is considered expired and treated as abandoned by the caller.
const DefaultSessionTTLMinutes = 60

// Focus-session validation errors
var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = errors.New("focus session ID cannot be empty")

	// ErrSessionUserIDEmpty is returned when a session's user ID is empty or nil.
	ErrSessionUserIDEmpty = errors.New("focus session user ID cannot be empty")

	// ErrSessionDurationInvalid is returned when the configured duration is not positive.
	ErrSessionDurationInvalid = errors.New("focus session duration must be positive")

	// ErrSessionElapsedInvalid is returned when elapsed minutes is negative
	// or exceeds the configured duration on a live session.
	ErrSessionElapsedInvalid = errors.New("focus session elapsed minutes out of range")

	// ErrSessionStateInvalid is returned when the session state is not recognized.
	ErrSessionStateInvalid = errors.New("invalid focus session state")

	// ErrSessionPausedAtInvalid is returned when paused_at disagrees with the
	// session state: it must be set while paused and unset otherwise.
	ErrSessionPausedAtInvalid = errors.New("focus session paused_at inconsistent with state")
)

// FocusSession is one timed, pausable study interval (a "Pomodoro").
//
// ElapsedMinutes accumulates running time only: while the session is
// Running, LastActivityAt marks the start of the current running stretch
// and the stretch is flushed into ElapsedMinutes on the next transition.
// Time spent paused never counts toward the timer.
type FocusSession struct {
	ID                uuid.UUID    `json:"id"`
	UserID            uuid.UUID    `json:"user_id"`
	Subject           string       `json:"subject"`
	State             SessionState `json:"state"`
	ConfiguredMinutes int          `json:"configured_duration_minutes"`
	ElapsedMinutes    float64      `json:"elapsed_minutes"`
	PausedAt          *time.Time   `json:"paused_at,omitempty"`
	InterruptionCount int          `json:"interruption_count"`
	LastActivityAt    time.Time    `json:"last_activity_at"`
	StartedAt         time.Time    `json:"started_at"`
	EndedAt           *time.Time   `json:"ended_at,omitempty"`
	Completed         bool         `json:"completed"`
	CompletionReason  string       `json:"completion_reason,omitempty"`
}

// Validate checks if the FocusSession has valid data and that its
// invariants hold. Returns an error if any check fails.
func (s *FocusSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if s.ConfiguredMinutes <= 0 {
		return ErrSessionDurationInvalid
	}

	switch s.State {
	case SessionStateRunning, SessionStatePaused, SessionStateCompleted, SessionStateAbandoned:
	default:
		return ErrSessionStateInvalid
	}

	if s.ElapsedMinutes < 0 {
		return ErrSessionElapsedInvalid
	}

	// elapsed may not exceed the configured duration while the session is live
	if s.IsLive() && s.ElapsedMinutes > float64(s.ConfiguredMinutes) {
		return ErrSessionElapsedInvalid
	}

	// paused_at is non-nil iff state is Paused
	if (s.State == SessionStatePaused) != (s.PausedAt != nil) {
		return ErrSessionPausedAtInvalid
	}

	return nil
}

// IsLive reports whether the session is still in progress (Running or Paused).
func (s *FocusSession) IsLive() bool {
	return s.State == SessionStateRunning || s.State == SessionStatePaused
}

// IsTerminal reports whether the session has ended.
func (s *FocusSession) IsTerminal() bool {
	return s.State == SessionStateCompleted || s.State == SessionStateAbandoned
}

// Clone returns a deep copy of the session. Transition functions operate on
// copies so the caller's snapshot is never mutated.
func (s *FocusSession) Clone() *FocusSession {
	clone := *s
	if s.PausedAt != nil {
		t := *s.PausedAt
		clone.PausedAt = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		clone.EndedAt = &t
	}
	return &clone
}
