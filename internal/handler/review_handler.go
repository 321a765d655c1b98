package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ReviewHandler handles review HTTP requests.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

// Submit handles POST /api/reviews requests.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}

	var req model.ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	review, err := h.service.Submit(r.Context(), who, &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// Check handles GET /api/reviews/check/{orderId}/{productId} requests.
func (h *ReviewHandler) Check(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	orderID, ok := pathUUID(w, r, "orderId")
	if !ok {
		return
	}

	check, err := h.service.Check(r.Context(), who.UserID, orderID, r.PathValue("productId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, check)
}

// MyReviews handles GET /api/reviews/my-reviews requests.
func (h *ReviewHandler) MyReviews(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}

	reviews, err := h.service.MyReviews(r.Context(), who.UserID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	writeJSON(w, http.StatusOK, reviews)
}

// ProductReviews handles GET /api/reviews/product/{productId} requests.
func (h *ReviewHandler) ProductReviews(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ProductReviews(r.Context(), r.PathValue("productId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if result.Reviews == nil {
		result.Reviews = []model.Review{}
	}

	writeJSON(w, http.StatusOK, result)
}

// List handles GET /api/reviews requests with status, productId, page and limit filters.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ReviewFilter{
		Status:    model.ReviewStatus(q.Get("status")),
		ProductID: q.Get("productId"),
	}

	var ok bool
	if filter.Page, ok = queryInt(w, r, "page"); !ok {
		return
	}
	if filter.Limit, ok = queryInt(w, r, "limit"); !ok {
		return
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if page.Reviews == nil {
		page.Reviews = []model.Review{}
	}

	writeJSON(w, http.StatusOK, page)
}

// Overview handles GET /api/reviews/stats/overview requests.
func (h *ReviewHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

// Moderate handles PUT /api/reviews/{id}/status requests.
func (h *ReviewHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req model.ReviewModerationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	review, err := h.service.Moderate(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/{id} requests.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Review deleted successfully"})
}

// queryInt parses an optional integer query parameter; absent means zero.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}
