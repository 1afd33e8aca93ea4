package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/api/shared"
	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/domain/focus"
	"github.com/mbecker/studycoach-api/internal/platform/logger"
	"github.com/mbecker/studycoach-api/internal/service"
)

// StartConflictResponse is returned with a 409 when a live session
// already exists. The existing session is attached so the client can
// offer to resume it instead.
type StartConflictResponse struct {
	Error   string               `json:"error"`
	Session *domain.FocusSession `json:"session"`
}

// FocusHandler handles focus session HTTP requests.
type FocusHandler struct {
	focusService service.FocusService
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewFocusHandler creates a new FocusHandler.
func NewFocusHandler(focusService service.FocusService, logger *slog.Logger) *FocusHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FocusHandler")
	}

	return &FocusHandler{
		focusService: focusService,
		validator:    validator.New(),
		logger:       logger.With(slog.String("component", "focus_handler")),
	}
}

// Start handles POST /focus/start requests.
func (h *FocusHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req StartFocusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	session, err := h.focusService.Start(r.Context(), userID, req.Subject, req.DurationMinutes)
	if err != nil {
		var conflict *focus.StartConflictError
		if errors.As(err, &conflict) {
			// 409 carries the live session so the client can resume it.
			shared.RespondWithJSON(w, r, http.StatusConflict, StartConflictResponse{
				Error:   "A focus session is already in progress",
				Session: conflict.Existing,
			})
			return
		}
		HandleAPIError(w, r, err, "Failed to start focus session")
		return
	}

	log.Debug("focus session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// Pause handles POST /focus/pause requests.
func (h *FocusHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "pause", h.focusService.Pause)
}

// Resume handles POST /focus/resume requests.
func (h *FocusHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "resume", h.focusService.Resume)
}

// Complete handles POST /focus/complete requests.
func (h *FocusHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "complete", h.focusService.Complete)
}

// Abandon handles POST /focus/abandon requests.
func (h *FocusHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, "abandon", h.focusService.Abandon)
}

// Extend handles POST /focus/extend requests.
func (h *FocusHandler) Extend(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req ExtendFocusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	session, err := h.focusService.Extend(r.Context(), userID, req.ExtraMinutes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to extend focus session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// Status handles GET /focus requests, reporting the live session and
// its remaining time. 404 means no live session.
func (h *FocusHandler) Status(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	status, err := h.focusService.Status(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get focus session status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// command runs one of the body-less session transitions and writes the
// updated session.
func (h *FocusHandler) command(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	fn func(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	session, err := fn(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to "+name+" focus session")
		return
	}

	log.Debug("focus session "+name,
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}
