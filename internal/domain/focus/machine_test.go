package focus

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
)

var t0 = time.Date(2024, time.March, 4, 16, 0, 0, 0, time.UTC)

func mustStart(t *testing.T, duration int) *domain.FocusSession {
	t.Helper()
	session, err := Start(uuid.New(), "Biology", duration, nil, t0)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return session
}

func TestStart(t *testing.T) {
	t.Parallel()

	t.Run("creates a running session", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		if session.State != domain.SessionStateRunning {
			t.Errorf("State = %q, want running", session.State)
		}
		if session.ElapsedMinutes != 0 {
			t.Errorf("ElapsedMinutes = %f, want 0", session.ElapsedMinutes)
		}
		if session.InterruptionCount != 0 {
			t.Errorf("InterruptionCount = %d, want 0", session.InterruptionCount)
		}
		if !session.LastActivityAt.Equal(t0) {
			t.Errorf("LastActivityAt = %v, want %v", session.LastActivityAt, t0)
		}
		if err := session.Validate(); err != nil {
			t.Errorf("New session fails validation: %v", err)
		}
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		t.Parallel()
		_, err := Start(uuid.New(), "Biology", 0, nil, t0)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("conflicts with a live session and attaches it", func(t *testing.T) {
		t.Parallel()
		existing := mustStart(t, 25)

		_, err := Start(existing.UserID, "Math", 25, existing, t0.Add(time.Minute))
		if !errors.Is(err, domain.ErrStateConflict) {
			t.Fatalf("Expected a state conflict, got %v", err)
		}

		var conflict *StartConflictError
		if !errors.As(err, &conflict) {
			t.Fatal("Expected a StartConflictError")
		}
		if conflict.Existing.ID != existing.ID {
			t.Error("Conflict does not carry the existing session")
		}
	})

	t.Run("allows a new session after a terminal one", func(t *testing.T) {
		t.Parallel()
		old := mustStart(t, 25)
		done, err := Complete(old, t0.Add(5*time.Minute))
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}

		if _, err := Start(old.UserID, "Math", 25, done, t0.Add(6*time.Minute)); err != nil {
			t.Errorf("Start after a completed session failed: %v", err)
		}
	})
}

func TestPauseResume(t *testing.T) {
	t.Parallel()

	t.Run("pause flushes elapsed and counts the interruption", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		paused, err := Pause(session, t0.Add(10*time.Minute))
		if err != nil {
			t.Fatalf("Pause failed: %v", err)
		}

		if paused.State != domain.SessionStatePaused {
			t.Errorf("State = %q, want paused", paused.State)
		}
		if paused.ElapsedMinutes != 10 {
			t.Errorf("ElapsedMinutes = %f, want 10", paused.ElapsedMinutes)
		}
		if paused.InterruptionCount != 1 {
			t.Errorf("InterruptionCount = %d, want 1", paused.InterruptionCount)
		}
		if paused.PausedAt == nil || !paused.PausedAt.Equal(t0.Add(10*time.Minute)) {
			t.Errorf("PausedAt = %v, want pause time", paused.PausedAt)
		}

		// the input snapshot is untouched
		if session.State != domain.SessionStateRunning || session.ElapsedMinutes != 0 {
			t.Error("Pause mutated its input")
		}
	})

	t.Run("paused time does not count toward the timer", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		paused, err := Pause(session, t0.Add(10*time.Minute))
		if err != nil {
			t.Fatalf("Pause failed: %v", err)
		}

		resumed, err := Resume(paused, t0.Add(13*time.Minute))
		if err != nil {
			t.Fatalf("Resume failed: %v", err)
		}

		if resumed.State != domain.SessionStateRunning {
			t.Errorf("State = %q, want running", resumed.State)
		}
		if resumed.PausedAt != nil {
			t.Error("PausedAt not cleared on resume")
		}
		if resumed.ElapsedMinutes != 10 {
			t.Errorf("ElapsedMinutes = %f, want 10 (break excluded)", resumed.ElapsedMinutes)
		}

		done, err := Complete(resumed, t0.Add(18*time.Minute))
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if done.ElapsedMinutes != 15 {
			t.Errorf("ElapsedMinutes = %f, want 15", done.ElapsedMinutes)
		}
	})

	t.Run("pause then resume at the same instant only counts the interruption", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)
		at := t0.Add(7 * time.Minute)

		paused, err := Pause(session, at)
		if err != nil {
			t.Fatalf("Pause failed: %v", err)
		}
		resumed, err := Resume(paused, at)
		if err != nil {
			t.Fatalf("Resume failed: %v", err)
		}

		if resumed.ElapsedMinutes != 7 {
			t.Errorf("ElapsedMinutes = %f, want 7", resumed.ElapsedMinutes)
		}
		if resumed.InterruptionCount != session.InterruptionCount+1 {
			t.Errorf("InterruptionCount = %d, want exactly one more", resumed.InterruptionCount)
		}
	})

	t.Run("pause requires running, resume requires paused", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		if _, err := Resume(session, t0); !errors.Is(err, domain.ErrStateConflict) {
			t.Errorf("Resume of a running session: expected ErrStateConflict, got %v", err)
		}

		paused, err := Pause(session, t0.Add(time.Minute))
		if err != nil {
			t.Fatalf("Pause failed: %v", err)
		}
		if _, err := Pause(paused, t0.Add(2*time.Minute)); !errors.Is(err, domain.ErrStateConflict) {
			t.Errorf("Pause of a paused session: expected ErrStateConflict, got %v", err)
		}
	})
}

func TestExtend(t *testing.T) {
	t.Parallel()

	t.Run("adds to the configured duration from either live state", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		extended, err := Extend(session, 5, t0.Add(10*time.Minute))
		if err != nil {
			t.Fatalf("Extend failed: %v", err)
		}
		if extended.ConfiguredMinutes != 30 {
			t.Errorf("ConfiguredMinutes = %d, want 30", extended.ConfiguredMinutes)
		}
		if extended.State != domain.SessionStateRunning {
			t.Errorf("State = %q, want running (extend does not change state)", extended.State)
		}

		paused, err := Pause(extended, t0.Add(12*time.Minute))
		if err != nil {
			t.Fatalf("Pause failed: %v", err)
		}
		extended2, err := Extend(paused, 10, t0.Add(13*time.Minute))
		if err != nil {
			t.Fatalf("Extend of paused session failed: %v", err)
		}
		if extended2.ConfiguredMinutes != 40 {
			t.Errorf("ConfiguredMinutes = %d, want 40", extended2.ConfiguredMinutes)
		}
		if extended2.State != domain.SessionStatePaused {
			t.Errorf("State = %q, want paused", extended2.State)
		}
	})

	t.Run("rejects non-positive extensions", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		if _, err := Extend(session, 0, t0); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestCompleteAndAbandon(t *testing.T) {
	t.Parallel()

	t.Run("complete flushes and marks the session done", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		done, err := Complete(session, t0.Add(20*time.Minute))
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}

		if done.State != domain.SessionStateCompleted {
			t.Errorf("State = %q, want completed", done.State)
		}
		if !done.Completed {
			t.Error("Completed flag not set")
		}
		if done.ElapsedMinutes != 20 {
			t.Errorf("ElapsedMinutes = %f, want 20", done.ElapsedMinutes)
		}
		if done.EndedAt == nil {
			t.Error("EndedAt not set")
		}
	})

	t.Run("abandon keeps partial elapsed time", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		gone, err := Abandon(session, t0.Add(8*time.Minute))
		if err != nil {
			t.Fatalf("Abandon failed: %v", err)
		}

		if gone.State != domain.SessionStateAbandoned {
			t.Errorf("State = %q, want abandoned", gone.State)
		}
		if gone.Completed {
			t.Error("Abandoned session must not be marked completed")
		}
		if gone.ElapsedMinutes != 8 {
			t.Errorf("ElapsedMinutes = %f, want 8", gone.ElapsedMinutes)
		}
	})

	t.Run("terminal sessions reject further transitions", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)
		done, err := Complete(session, t0.Add(5*time.Minute))
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}

		if _, err := Abandon(done, t0.Add(6*time.Minute)); !errors.Is(err, domain.ErrStateConflict) {
			t.Errorf("Abandon of completed session: expected ErrStateConflict, got %v", err)
		}
		if _, err := Complete(done, t0.Add(6*time.Minute)); !errors.Is(err, domain.ErrStateConflict) {
			t.Errorf("Complete of completed session: expected ErrStateConflict, got %v", err)
		}
	})

	t.Run("elapsed never exceeds the configured duration", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		done, err := Complete(session, t0.Add(40*time.Minute))
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}

		if done.ElapsedMinutes != float64(done.ConfiguredMinutes) {
			t.Errorf("ElapsedMinutes = %f, want exactly %d",
				done.ElapsedMinutes, done.ConfiguredMinutes)
		}
	})
}

func TestAutoCompletion(t *testing.T) {
	t.Parallel()

	t.Run("pause past the timer auto-completes instead", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		result, err := Pause(session, t0.Add(30*time.Minute))
		if err != nil {
			t.Fatalf("Pause failed: %v", err)
		}

		if result.State != domain.SessionStateCompleted {
			t.Errorf("State = %q, want completed", result.State)
		}
		if result.CompletionReason != domain.CompletionReasonTimerElapsed {
			t.Errorf("CompletionReason = %q, want %q",
				result.CompletionReason, domain.CompletionReasonTimerElapsed)
		}
		if result.ElapsedMinutes != 25 {
			t.Errorf("ElapsedMinutes = %f, want clamped to 25", result.ElapsedMinutes)
		}
		if result.InterruptionCount != 0 {
			t.Error("Auto-completion must not count an interruption")
		}
	})

	t.Run("extend past the timer auto-completes and discards the extension", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		result, err := Extend(session, 10, t0.Add(26*time.Minute))
		if err != nil {
			t.Fatalf("Extend failed: %v", err)
		}

		if result.State != domain.SessionStateCompleted {
			t.Errorf("State = %q, want completed", result.State)
		}
		if result.ConfiguredMinutes != 25 {
			t.Errorf("ConfiguredMinutes = %d, want 25", result.ConfiguredMinutes)
		}
	})

	t.Run("manual completion before the timer has no auto reason", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		done, err := Complete(session, t0.Add(10*time.Minute))
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if done.CompletionReason != "" {
			t.Errorf("CompletionReason = %q, want empty", done.CompletionReason)
		}
	})
}

func TestExpiryAndRemaining(t *testing.T) {
	t.Parallel()

	t.Run("expiry fires after the ttl, not at it", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		if IsExpired(session, t0.Add(60*time.Minute), 60) {
			t.Error("Session at exactly the ttl must not be expired")
		}
		if !IsExpired(session, t0.Add(61*time.Minute), 60) {
			t.Error("Session past the ttl must be expired")
		}
	})

	t.Run("zero ttl uses the default", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		if !IsExpired(session, t0.Add(2*time.Hour), 0) {
			t.Error("Expected default ttl of 60 minutes to apply")
		}
	})

	t.Run("terminal sessions never expire", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)
		done, err := Complete(session, t0.Add(5*time.Minute))
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}

		if IsExpired(done, t0.Add(5*time.Hour), 60) {
			t.Error("Completed session reported as expired")
		}
	})

	t.Run("remaining minutes floors at zero", func(t *testing.T) {
		t.Parallel()
		session := mustStart(t, 25)

		if got := RemainingMinutes(session, t0.Add(10*time.Minute)); got != 15 {
			t.Errorf("RemainingMinutes = %f, want 15", got)
		}
		if got := RemainingMinutes(session, t0.Add(40*time.Minute)); got != 0 {
			t.Errorf("RemainingMinutes = %f, want 0", got)
		}
	})
}

func TestFullSessionScenario(t *testing.T) {
	t.Parallel()

	// start 25m, pause at +10, resume at +13, extend +5, complete at +33
	session := mustStart(t, 25)

	paused, err := Pause(session, t0.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if paused.ElapsedMinutes != 10 || paused.InterruptionCount != 1 {
		t.Fatalf("After pause: elapsed=%f interruptions=%d, want 10 and 1",
			paused.ElapsedMinutes, paused.InterruptionCount)
	}

	resumed, err := Resume(paused, t0.Add(13*time.Minute))
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}

	extended, err := Extend(resumed, 5, t0.Add(13*time.Minute))
	if err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	if extended.ConfiguredMinutes != 30 {
		t.Fatalf("ConfiguredMinutes = %d, want 30", extended.ConfiguredMinutes)
	}

	done, err := Complete(extended, t0.Add(33*time.Minute))
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if done.ElapsedMinutes != 30 {
		t.Errorf("ElapsedMinutes = %f, want 30", done.ElapsedMinutes)
	}
	if done.ConfiguredMinutes != 30 {
		t.Errorf("ConfiguredMinutes = %d, want 30", done.ConfiguredMinutes)
	}
	if done.InterruptionCount != 1 {
		t.Errorf("InterruptionCount = %d, want 1", done.InterruptionCount)
	}
	if !done.Completed || done.State != domain.SessionStateCompleted {
		t.Error("Session not marked completed")
	}
}
