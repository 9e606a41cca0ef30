package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/supportdesk/hub/internal/api/response"
	"github.com/supportdesk/hub/internal/api/validation"
	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
)

// AlertsService defines the interface for the pending-alert queue.
type AlertsService interface {
	Pending(ctx context.Context) ([]models.Alert, error)
	Trigger(ctx context.Context, message string) (models.Alert, error)
	Delete(ctx context.Context, req *models.DeleteAlertRequest) error
	Flush(ctx context.Context) (int, error)
}

// AlertsHandler handles HTTP requests for the alert queue.
type AlertsHandler struct {
	service AlertsService
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(service AlertsService) *AlertsHandler {
	return &AlertsHandler{service: service}
}

// List handles GET /v1/alerts.
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.Pending(r.Context())
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, alerts)
}

// Trigger handles POST /v1/alerts.
func (h *AlertsHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req models.TriggerAlertRequest
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

	alert, err := h.service.Trigger(r.Context(), req.Message)
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusCreated, alert)
}

// Delete handles POST /v1/alerts/delete.
func (h *AlertsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteAlertRequest
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

	if err := h.service.Delete(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			response.RespondBadRequest(w, err.Error())
		case errors.Is(err, apperrors.ErrNotFound):
			response.RespondNotFound(w, "Alert not found")
		default:
			response.RespondInternalServerError(w, "An unexpected error occurred")
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Flush handles POST /v1/alerts/flush.
func (h *AlertsHandler) Flush(w http.ResponseWriter, r *http.Request) {
	delivered, err := h.service.Flush(r.Context())
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"delivered": delivered})
}
