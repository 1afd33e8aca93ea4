package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/domain/focus"
	"github.com/mbecker/studycoach-api/internal/store"
)

// SessionStatus is the live-session snapshot returned to callers, with
// the derived remaining time alongside the raw session fields.
type SessionStatus struct {
	Session          *domain.FocusSession `json:"session"`
	RemainingMinutes float64              `json:"remaining_minutes"`
}

// FocusService drives the focus session lifecycle. Every command loads
// the live session under a row lock inside a transaction, applies the
// inactivity check first, then dispatches the pure state transition and
// persists the result. Two concurrent commands therefore never act on
// the same stale snapshot.
type FocusService interface {
	// Start begins a new focus session. A non-positive duration falls
	// back to the user's preferred session length.
	// Returns a focus.StartConflictError when a live session exists.
	Start(ctx context.Context, userID uuid.UUID, subject string, durationMinutes int) (*domain.FocusSession, error)

	// Pause suspends the running session and counts the interruption.
	Pause(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)

	// Resume continues a paused session. Time spent paused is excluded.
	Resume(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)

	// Extend adds minutes to the live session's configured duration.
	Extend(ctx context.Context, userID uuid.UUID, extraMinutes int) (*domain.FocusSession, error)

	// Complete finishes the live session early.
	Complete(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)

	// Abandon discards the live session without completion credit.
	Abandon(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)

	// Status reports the live session and its remaining time.
	// Returns store.ErrSessionNotFound when no live session exists.
	Status(ctx context.Context, userID uuid.UUID) (*SessionStatus, error)
}

// focusServiceImpl implements the FocusService interface
type focusServiceImpl struct {
	db           *sql.DB
	sessionStore store.SessionStore
	userStore    store.UserStore
	ttlMinutes   int
	logger       *slog.Logger
	timeFunc     func() time.Time // Injectable for testing
}

// NewFocusService creates a new FocusService. A non-positive ttlMinutes
// falls back to the default inactivity threshold.
func NewFocusService(
	db *sql.DB,
	sessionStore store.SessionStore,
	userStore store.UserStore,
	ttlMinutes int,
	logger *slog.Logger,
) FocusService {
	if ttlMinutes <= 0 {
		ttlMinutes = domain.DefaultSessionTTLMinutes
	}

	return &focusServiceImpl{
		db:           db,
		sessionStore: sessionStore,
		userStore:    userStore,
		ttlMinutes:   ttlMinutes,
		logger:       logger.With("component", "focus_service"),
		timeFunc:     func() time.Time { return time.Now().UTC() },
	}
}

// Start implements FocusService.Start
func (s *focusServiceImpl) Start(
	ctx context.Context,
	userID uuid.UUID,
	subject string,
	durationMinutes int,
) (*domain.FocusSession, error) {
	if durationMinutes <= 0 {
		user, err := s.userStore.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user for session start: %w", err)
		}
		durationMinutes = user.Preferences.EffectivePomodoroMinutes()
	}

	var created *domain.FocusSession

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.sessionStore.WithTx(tx)
		now := s.timeFunc()

		current, err := txStore.GetLiveForUpdate(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrSessionNotFound) {
			return fmt.Errorf("failed to load live session: %w", err)
		}

		if current != nil {
			expired, err := s.expireStale(ctx, txStore, current, now)
			if err != nil {
				return err
			}
			if expired {
				current = nil
			}
		}

		session, err := focus.Start(userID, subject, durationMinutes, current, now)
		if err != nil {
			return err
		}

		if err := txStore.Create(ctx, session); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}

		created = session
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("focus session started",
		"session_id", created.ID,
		"user_id", userID,
		"configured_minutes", created.ConfiguredMinutes)

	return created, nil
}

// Pause implements FocusService.Pause
func (s *focusServiceImpl) Pause(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.FocusSession, error) {
	return s.transition(ctx, userID, "pause", focus.Pause)
}

// Resume implements FocusService.Resume
func (s *focusServiceImpl) Resume(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.FocusSession, error) {
	return s.transition(ctx, userID, "resume", focus.Resume)
}

// Extend implements FocusService.Extend
func (s *focusServiceImpl) Extend(
	ctx context.Context,
	userID uuid.UUID,
	extraMinutes int,
) (*domain.FocusSession, error) {
	return s.transition(ctx, userID, "extend",
		func(session *domain.FocusSession, now time.Time) (*domain.FocusSession, error) {
			return focus.Extend(session, extraMinutes, now)
		})
}

// Complete implements FocusService.Complete
func (s *focusServiceImpl) Complete(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.FocusSession, error) {
	return s.transition(ctx, userID, "complete", focus.Complete)
}

// Abandon implements FocusService.Abandon
func (s *focusServiceImpl) Abandon(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.FocusSession, error) {
	return s.transition(ctx, userID, "abandon", focus.Abandon)
}

// Status implements FocusService.Status. A stale session is finalized
// as abandoned before reporting, so an expired timer reads the same as
// having no session at all.
func (s *focusServiceImpl) Status(
	ctx context.Context,
	userID uuid.UUID,
) (*SessionStatus, error) {
	session, err := s.sessionStore.GetLive(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.timeFunc()

	if focus.IsExpired(session, now, s.ttlMinutes) {
		err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.sessionStore.WithTx(tx)

			locked, err := txStore.GetLiveForUpdate(ctx, userID)
			if err != nil {
				return err
			}
			_, err = s.expireStale(ctx, txStore, locked, now)
			return err
		})
		if err != nil && !errors.Is(err, store.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to expire stale session: %w", err)
		}
		return nil, store.ErrSessionNotFound
	}

	return &SessionStatus{
		Session:          session,
		RemainingMinutes: focus.RemainingMinutes(session, now),
	}, nil
}

// transition runs one locked state transition for the user's live session.
func (s *focusServiceImpl) transition(
	ctx context.Context,
	userID uuid.UUID,
	op string,
	fn func(session *domain.FocusSession, now time.Time) (*domain.FocusSession, error),
) (*domain.FocusSession, error) {
	var result *domain.FocusSession
	var expiredStale bool

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.sessionStore.WithTx(tx)
		now := s.timeFunc()

		session, err := txStore.GetLiveForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		expired, err := s.expireStale(ctx, txStore, session, now)
		if err != nil {
			return err
		}
		if expired {
			// Commit the expiry; the command itself still fails below.
			expiredStale = true
			return nil
		}

		next, err := fn(session, now)
		if err != nil {
			return err
		}

		if err := txStore.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to persist session transition: %w", err)
		}

		result = next
		return nil
	})

	if err != nil {
		return nil, err
	}
	if expiredStale {
		return nil, store.ErrSessionNotFound
	}

	s.logger.Info("focus session transition applied",
		"op", op,
		"session_id", result.ID,
		"user_id", userID,
		"state", result.State)

	return result, nil
}

// expireStale finalizes a session as abandoned when it has sat inactive
// past the TTL. Reports whether the session was expired. Runs within
// the caller's transaction so the expiry commits atomically with
// whatever follows it.
func (s *focusServiceImpl) expireStale(
	ctx context.Context,
	txStore store.SessionStore,
	session *domain.FocusSession,
	now time.Time,
) (bool, error) {
	if !focus.IsExpired(session, now, s.ttlMinutes) {
		return false, nil
	}

	abandoned, err := focus.Abandon(session, now)
	if err != nil {
		return true, fmt.Errorf("failed to abandon expired session: %w", err)
	}

	if err := txStore.Update(ctx, abandoned); err != nil {
		return true, fmt.Errorf("failed to persist expired session: %w", err)
	}

	s.logger.Info("stale focus session expired",
		"session_id", session.ID,
		"user_id", session.UserID,
		"elapsed_minutes", abandoned.ElapsedMinutes)

	return true, nil
}
