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

// TicketsService defines the interface for ticket business logic.
type TicketsService interface {
	CreateTicket(ctx context.Context, req *models.CreateTicketRequest) (*models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	UpdateTicketStatus(ctx context.Context, id string, status models.TicketStatus) (*models.Ticket, error)
}

// TicketsHandler handles HTTP requests for tickets.
type TicketsHandler struct {
	service TicketsService
}

// NewTicketsHandler creates a new tickets handler.
func NewTicketsHandler(service TicketsService) *TicketsHandler {
	return &TicketsHandler{service: service}
}

// Create handles POST /v1/tickets.
func (h *TicketsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTicketRequest
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

	ticket, err := h.service.CreateTicket(r.Context(), &req)
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusCreated, ticket)
}

// List handles GET /v1/tickets.
func (h *TicketsHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.service.ListTickets(r.Context())
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, tickets)
}

// UpdateStatus handles PATCH /v1/tickets/{id}.
func (h *TicketsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		response.RespondBadRequest(w, "Ticket ID is required")
		return
	}

	var req models.UpdateTicketRequest
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

	ticket, err := h.service.UpdateTicketStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.RespondNotFound(w, "Ticket not found")
			return
		}
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, ticket)
}
