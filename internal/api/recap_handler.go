package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mbecker/studycoach-api/internal/api/shared"
	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/platform/logger"
	"github.com/mbecker/studycoach-api/internal/service"
)

// RecapHandler handles daily recap requests.
type RecapHandler struct {
	recapService service.RecapService
	logger       *slog.Logger
	timeFunc     func() time.Time // Injectable for testing
}

// NewRecapHandler creates a new RecapHandler.
func NewRecapHandler(recapService service.RecapService, logger *slog.Logger) *RecapHandler {
	return &RecapHandler{
		recapService: recapService,
		logger:       logger.With(slog.String("component", "recap_handler")),
		timeFunc:     time.Now,
	}
}

// GetDailyRecap handles GET /recap requests. An optional
// ?date=YYYY-MM-DD query parameter recaps a different day.
func (h *RecapHandler) GetDailyRecap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	today, err := queryDate(r, func() domain.Date { return domain.DateOf(h.timeFunc()) })
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	recap, err := h.recapService.DailyRecap(r.Context(), userID, today)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build recap")
		return
	}

	log.Debug("daily recap served",
		slog.String("user_id", userID.String()),
		slog.String("date", recap.Date.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, recap)
}
