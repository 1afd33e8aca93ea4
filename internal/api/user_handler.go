package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mbecker/studycoach-api/internal/api/shared"
	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/platform/logger"
	"github.com/mbecker/studycoach-api/internal/service"
)

// UserHandler handles profile and preference requests.
type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// GetMe handles GET /users/me requests.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// UpdatePreferences handles PUT /users/me/preferences requests. The
// stored preferences are replaced wholesale, so omitted fields reset to
// their defaults.
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req UpdatePreferencesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown timezone")
			return
		}
	}

	prefs := domain.Preferences{
		PomodoroMinutes:     req.PomodoroMinutes,
		ReminderLeadMinutes: req.ReminderLeadMinutes,
		Timezone:            req.Timezone,
	}

	if err := h.userService.UpdatePreferences(r.Context(), userID, prefs); err != nil {
		HandleAPIError(w, r, err, "Failed to update preferences")
		return
	}

	log.Debug("preferences updated", slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, prefs)
}
