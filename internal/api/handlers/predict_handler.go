package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/supportdesk/hub/internal/api/response"
	"github.com/supportdesk/hub/internal/api/validation"
	"github.com/supportdesk/hub/internal/service"
)

// PredictService defines the interface for the predict endpoint.
type PredictService interface {
	Predict(ctx context.Context, query string) ([]service.Prediction, error)
}

// PredictRequest is the request for article predictions.
type PredictRequest struct {
	Description string `json:"description" validate:"required,min=5"`
}

// PredictResponse wraps the ranked predictions.
type PredictResponse struct {
	Results []service.Prediction `json:"results"`
}

// PredictHandler handles HTTP requests for standalone predictions.
type PredictHandler struct {
	service PredictService
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(service PredictService) *PredictHandler {
	return &PredictHandler{service: service}
}

// Predict handles POST /v1/predict.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
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

	predictions, err := h.service.Predict(r.Context(), req.Description)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			response.RespondBadRequest(w, "Description must be non-empty")
			return
		}
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, PredictResponse{Results: predictions})
}
