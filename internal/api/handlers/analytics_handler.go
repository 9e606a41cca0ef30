package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/supportdesk/hub/internal/api/response"
	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
)

// AnalysisService defines the interface for gap analysis.
type AnalysisService interface {
	RunGapAnalysis(ctx context.Context) (*models.GapReport, error)
	LatestReport(ctx context.Context) (*models.GapReport, error)
}

// AnalyticsHandler handles HTTP requests for gap analysis reports.
type AnalyticsHandler struct {
	service AnalysisService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service AnalysisService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Summary handles GET /v1/analytics/summary. It returns the most recently
// stored gap report without recomputing anything.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.LatestReport(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.RespondNotFound(w, "No gap report available yet")
			return
		}
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// Run handles POST /v1/analytics/run. It computes a fresh gap report, stores
// it, and raises alerts for any crossed thresholds.
func (h *AnalyticsHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RunGapAnalysis(r.Context())
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}
