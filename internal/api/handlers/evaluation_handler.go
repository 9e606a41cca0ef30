package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/supportdesk/hub/internal/api/response"
	"github.com/supportdesk/hub/internal/api/validation"
	"github.com/supportdesk/hub/internal/models"
)

const defaultEvaluationTopK = 5

// FeedbackEvaluator computes metrics over the accumulated feedback log.
type FeedbackEvaluator interface {
	FeedbackMetrics(ctx context.Context) (models.FeedbackMetrics, error)
}

// DatasetEvaluator runs the ranker against a labeled dataset.
type DatasetEvaluator interface {
	EvaluateDataset(ctx context.Context, items []models.DatasetItem, topK int) models.DatasetMetrics
}

// EvaluateDatasetRequest is the request body for a labeled-dataset evaluation run.
type EvaluateDatasetRequest struct {
	Items []models.DatasetItem `json:"items" validate:"required,min=1,max=1000,dive"`
	TopK  int                  `json:"top_k" validate:"omitempty,min=1,max=50"`
}

// EvaluationHandler handles HTTP requests for ad hoc quality evaluation.
type EvaluationHandler struct {
	feedback FeedbackEvaluator
	dataset  DatasetEvaluator
}

// NewEvaluationHandler creates a new evaluation handler.
func NewEvaluationHandler(feedback FeedbackEvaluator, dataset DatasetEvaluator) *EvaluationHandler {
	return &EvaluationHandler{feedback: feedback, dataset: dataset}
}

// Feedback handles POST /v1/evaluation/feedback.
func (h *EvaluationHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.feedback.FeedbackMetrics(r.Context())
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, metrics)
}

// Dataset handles POST /v1/evaluation/dataset.
func (h *EvaluationHandler) Dataset(w http.ResponseWriter, r *http.Request) {
	var req EvaluateDatasetRequest
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

	topK := req.TopK
	if topK == 0 {
		topK = defaultEvaluationTopK
	}

	metrics := h.dataset.EvaluateDataset(r.Context(), req.Items, topK)

	response.RespondJSON(w, http.StatusOK, metrics)
}
