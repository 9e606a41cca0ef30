package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
)

// MockTicketsService is a mock implementation of TicketsService
type MockTicketsService struct {
	mock.Mock
}

func (m *MockTicketsService) CreateTicket(ctx context.Context, req *models.CreateTicketRequest) (*models.Ticket, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketsService) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockTicketsService) UpdateTicketStatus(ctx context.Context, id string, status models.TicketStatus) (*models.Ticket, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func TestTicketsHandler_Create(t *testing.T) {
	t.Run("creates ticket successfully", func(t *testing.T) {
		mockService := new(MockTicketsService)
		handler := NewTicketsHandler(mockService)

		reqBody := map[string]interface{}{
			"title":         "Package never arrived",
			"description":   "my package is delayed and has not arrived",
			"customer_name": "Dana",
		}

		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest("POST", "/v1/tickets", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		ticket := &models.Ticket{
			ID:       "t_11111111-1111-1111-1111-111111111111",
			Title:    "Package never arrived",
			Status:   models.TicketStatusOpen,
			Category: models.CategoryShipping,
		}

		mockService.On("CreateTicket", req.Context(), mock.AnythingOfType("*models.CreateTicketRequest")).Return(ticket, nil)

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects short description", func(t *testing.T) {
		mockService := new(MockTicketsService)
		handler := NewTicketsHandler(mockService)

		reqBody := map[string]interface{}{
			"title":         "Package never arrived",
			"description":   "hm",
			"customer_name": "Dana",
		}

		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest("POST", "/v1/tickets", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "CreateTicket")
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		mockService := new(MockTicketsService)
		handler := NewTicketsHandler(mockService)

		body := []byte(`{"title":"Hello there","description":"a longer description","customer_name":"Dana","bogus":1}`)
		req := httptest.NewRequest("POST", "/v1/tickets", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "CreateTicket")
	})
}

func TestTicketsHandler_UpdateStatus(t *testing.T) {
	t.Run("updates status successfully", func(t *testing.T) {
		mockService := new(MockTicketsService)
		handler := NewTicketsHandler(mockService)

		body := []byte(`{"status":"resolved"}`)
		req := httptest.NewRequest("PATCH", "/v1/tickets/t_abc", bytes.NewBuffer(body))
		req.SetPathValue("id", "t_abc")
		w := httptest.NewRecorder()

		ticket := &models.Ticket{ID: "t_abc", Status: models.TicketStatusResolved}

		mockService.On("UpdateTicketStatus", req.Context(), "t_abc", models.TicketStatusResolved).Return(ticket, nil)

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("returns not found for unknown ticket", func(t *testing.T) {
		mockService := new(MockTicketsService)
		handler := NewTicketsHandler(mockService)

		body := []byte(`{"status":"resolved"}`)
		req := httptest.NewRequest("PATCH", "/v1/tickets/t_missing", bytes.NewBuffer(body))
		req.SetPathValue("id", "t_missing")
		w := httptest.NewRecorder()

		mockService.On("UpdateTicketStatus", req.Context(), "t_missing", models.TicketStatusResolved).
			Return(nil, apperrors.NewNotFoundError("ticket", "not found"))

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects invalid status value", func(t *testing.T) {
		mockService := new(MockTicketsService)
		handler := NewTicketsHandler(mockService)

		body := []byte(`{"status":"parked"}`)
		req := httptest.NewRequest("PATCH", "/v1/tickets/t_abc", bytes.NewBuffer(body))
		req.SetPathValue("id", "t_abc")
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UpdateTicketStatus")
	})
}
