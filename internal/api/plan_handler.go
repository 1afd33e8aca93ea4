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

// PlanHandler handles daily plan requests.
type PlanHandler struct {
	planService service.PlanService
	logger      *slog.Logger
	timeFunc    func() time.Time // Injectable for testing
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger.With(slog.String("component", "plan_handler")),
		timeFunc:    time.Now,
	}
}

// GetDailyPlan handles GET /plan requests. An optional ?date=YYYY-MM-DD
// query parameter plans a different day; the default is today.
func (h *PlanHandler) GetDailyPlan(w http.ResponseWriter, r *http.Request) {
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

	plan, err := h.planService.GenerateDailyPlan(r.Context(), userID, today)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate plan")
		return
	}

	log.Debug("daily plan served",
		slog.String("user_id", userID.String()),
		slog.Int("entries", len(plan.Entries)))
	shared.RespondWithJSON(w, r, http.StatusOK, plan)
}
