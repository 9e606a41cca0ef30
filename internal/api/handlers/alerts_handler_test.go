package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
)

// MockAlertsService is a mock implementation of AlertsService
type MockAlertsService struct {
	mock.Mock
}

func (m *MockAlertsService) Pending(ctx context.Context) ([]models.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *MockAlertsService) Trigger(ctx context.Context, message string) (models.Alert, error) {
	args := m.Called(ctx, message)
	return args.Get(0).(models.Alert), args.Error(1)
}

func (m *MockAlertsService) Delete(ctx context.Context, req *models.DeleteAlertRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAlertsService) Flush(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestAlertsHandler_Trigger(t *testing.T) {
	t.Run("queues manual alert", func(t *testing.T) {
		mockService := new(MockAlertsService)
		handler := NewAlertsHandler(mockService)

		body := []byte(`{"message":"review shipping articles"}`)
		req := httptest.NewRequest("POST", "/v1/alerts", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		alert := models.Alert{Timestamp: time.Now().UTC(), Message: "review shipping articles"}

		mockService.On("Trigger", req.Context(), "review shipping articles").Return(alert, nil)

		handler.Trigger(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects empty message", func(t *testing.T) {
		mockService := new(MockAlertsService)
		handler := NewAlertsHandler(mockService)

		body := []byte(`{"message":""}`)
		req := httptest.NewRequest("POST", "/v1/alerts", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.Trigger(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Trigger")
	})
}

func TestAlertsHandler_Delete(t *testing.T) {
	t.Run("deletes by index", func(t *testing.T) {
		mockService := new(MockAlertsService)
		handler := NewAlertsHandler(mockService)

		body := []byte(`{"index":0}`)
		req := httptest.NewRequest("POST", "/v1/alerts/delete", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Delete", req.Context(), mock.AnythingOfType("*models.DeleteAlertRequest")).Return(nil)

		handler.Delete(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("maps selector errors to bad request", func(t *testing.T) {
		mockService := new(MockAlertsService)
		handler := NewAlertsHandler(mockService)

		body := []byte(`{}`)
		req := httptest.NewRequest("POST", "/v1/alerts/delete", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Delete", req.Context(), mock.AnythingOfType("*models.DeleteAlertRequest")).
			Return(apperrors.NewValidationError("index", "either index or timestamp is required"))

		handler.Delete(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("maps missing alert to not found", func(t *testing.T) {
		mockService := new(MockAlertsService)
		handler := NewAlertsHandler(mockService)

		body := []byte(`{"index":7}`)
		req := httptest.NewRequest("POST", "/v1/alerts/delete", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Delete", req.Context(), mock.AnythingOfType("*models.DeleteAlertRequest")).
			Return(apperrors.NewNotFoundError("alert", "no pending alert at index"))

		handler.Delete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestAlertsHandler_List(t *testing.T) {
	mockService := new(MockAlertsService)
	handler := NewAlertsHandler(mockService)

	req := httptest.NewRequest("GET", "/v1/alerts", nil)
	w := httptest.NewRecorder()

	pending := []models.Alert{
		{Timestamp: time.Now().UTC(), Message: "Low coverage: 50.00%"},
	}

	mockService.On("Pending", req.Context()).Return(pending, nil)

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Low coverage")
	mockService.AssertExpectations(t)
}
