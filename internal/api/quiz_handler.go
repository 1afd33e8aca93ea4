package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mbecker/studycoach-api/internal/api/shared"
	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/platform/logger"
	"github.com/mbecker/studycoach-api/internal/service"
)

// DueItemResponse pairs a due review item with its schedule.
type DueItemResponse struct {
	Item  *domain.ReviewItem  `json:"item"`
	State *domain.ReviewState `json:"state"`
}

// QuizHandler handles review item and quiz HTTP requests.
type QuizHandler struct {
	quizService   service.QuizService
	reviewService service.ReviewService
	validator     *validator.Validate
	logger        *slog.Logger
	timeFunc      func() time.Time // Injectable for testing
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(
	quizService service.QuizService,
	reviewService service.ReviewService,
	logger *slog.Logger,
) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}

	return &QuizHandler{
		quizService:   quizService,
		reviewService: reviewService,
		validator:     validator.New(),
		logger:        logger.With(slog.String("component", "quiz_handler")),
		timeFunc:      time.Now,
	}
}

// CreateItem handles POST /items requests.
func (h *QuizHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	item, err := h.quizService.CreateItem(r.Context(), userID, req.Subject, req.Prompt, req.ExpectedAnswer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create review item")
		return
	}

	log.Debug("review item created",
		slog.String("user_id", userID.String()),
		slog.String("item_id", item.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, item)
}

// ListItems handles GET /items requests. An optional ?subject= query
// parameter filters by exact subject.
func (h *QuizHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	items, err := h.quizService.ListItems(r.Context(), userID, r.URL.Query().Get("subject"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list review items")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// DeleteItem handles DELETE /items/{id} requests.
func (h *QuizHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.quizService.DeleteItem(r.Context(), userID, itemID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete review item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateFromNotes handles POST /items/generate requests. Generation
// runs in the background; 202 only means the job was accepted.
func (h *QuizHandler) GenerateFromNotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req GenerateItemsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if err := h.quizService.GenerateFromNotes(r.Context(), userID, req.Subject, req.Notes); err != nil {
		HandleAPIError(w, r, err, "Failed to enqueue quiz generation")
		return
	}

	log.Debug("quiz generation enqueued", slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateAcceptedResponse{Status: "accepted"})
}

// DueItems handles GET /quiz/due requests. Optional query parameters:
// ?subject= filters by loosely matched subject name, ?limit= caps the
// batch, ?date= overrides today.
func (h *QuizHandler) DueItems(w http.ResponseWriter, r *http.Request) {
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

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	due, err := h.reviewService.DueItems(r.Context(), userID, r.URL.Query().Get("subject"), today, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to select due items")
		return
	}

	response := make([]DueItemResponse, 0, len(due))
	for _, d := range due {
		response = append(response, DueItemResponse{Item: d.Item, State: d.State})
	}

	log.Debug("due items served",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// SubmitAnswer handles POST /quiz/{id}/answer requests. The free-text
// answer is graded against the item's expected answer and the schedule
// advances in the same transaction.
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SubmitReviewAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	today := domain.DateOf(h.timeFunc())

	result, err := h.reviewService.SubmitAnswer(r.Context(), userID, itemID, req.Answer, today)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("review answer graded",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("quality", string(result.Quality)))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
