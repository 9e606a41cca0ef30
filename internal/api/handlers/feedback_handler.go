package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/supportdesk/hub/internal/api/response"
	"github.com/supportdesk/hub/internal/api/validation"
	"github.com/supportdesk/hub/internal/models"
	"github.com/supportdesk/hub/internal/service"
)

// FeedbackService defines the interface for feedback business logic.
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, req *models.SubmitFeedbackRequest) (*service.FeedbackResult, error)
	ListFeedback(ctx context.Context) ([]models.FeedbackEntry, error)
}

// FeedbackHandler handles HTTP requests for recommendation feedback.
type FeedbackHandler struct {
	service FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(service FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Submit handles POST /v1/feedback.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitFeedbackRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		validation.RespondValidationError(w, err)
		return
	}

	result, err := h.service.SubmitFeedback(r.Context(), &req)
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}

// List handles GET /v1/feedback.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListFeedback(r.Context())
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}
