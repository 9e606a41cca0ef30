package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
	"github.com/supportdesk/hub/internal/observability"
)

// AlertsRepository defines the interface for pending-alert data access.
type AlertsRepository interface {
	Append(ctx context.Context, alert models.Alert) error
	List(ctx context.Context) ([]models.Alert, error)
	DeleteByIndex(ctx context.Context, index int) error
	DeleteByTimestamp(ctx context.Context, ts time.Time) error
	DeleteDelivered(ctx context.Context, alert models.Alert) error
}

// NotificationSink delivers one alert to an external channel. A nil error means
// confirmed delivery.
type NotificationSink interface {
	Send(ctx context.Context, alert models.Alert) error
}

// AlertsService manages the pending alert queue. Alerts stay queued until the
// sink confirms delivery or an operator deletes them; a sink outage loses
// nothing.
type AlertsService struct {
	repo    AlertsRepository
	sink    NotificationSink
	metrics observability.HubMetrics
	logger  *slog.Logger
}

// NewAlertsService creates an alerts service. sink may be nil (no delivery
// channel configured; alerts accumulate until flushed manually or deleted).
// metrics may be nil.
func NewAlertsService(repo AlertsRepository, sink NotificationSink, metrics observability.HubMetrics, logger *slog.Logger) *AlertsService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AlertsService{
		repo:    repo,
		sink:    sink,
		metrics: metrics,
		logger:  logger,
	}
}

// Raise queues an alert. kind labels the alert for metrics
// (coverage, low_ctr, accuracy, manual).
func (s *AlertsService) Raise(ctx context.Context, alert models.Alert, kind string) error {
	if err := s.repo.Append(ctx, alert); err != nil {
		return fmt.Errorf("queue alert: %w", err)
	}

	s.logger.Info("alert queued", "kind", kind, "message", alert.Message)

	if s.metrics != nil {
		s.metrics.RecordAlertRaised(ctx, kind)
	}

	return nil
}

// Pending lists queued alerts, oldest first.
func (s *AlertsService) Pending(ctx context.Context) ([]models.Alert, error) {
	return s.repo.List(ctx)
}

// Flush attempts delivery of every pending alert. Only alerts whose delivery
// the sink confirmed are removed; the rest stay queued for the next flush.
// Returns the number delivered.
func (s *AlertsService) Flush(ctx context.Context) (int, error) {
	pending, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending alerts: %w", err)
	}

	if len(pending) == 0 {
		return 0, nil
	}

	if s.sink == nil {
		s.logger.Info("alert flush skipped, no notification sink configured", "pending", len(pending))

		if s.metrics != nil {
			s.metrics.RecordAlertDelivery(ctx, "skipped")
		}

		return 0, nil
	}

	delivered := 0

	for _, alert := range pending {
		if err := s.sink.Send(ctx, alert); err != nil {
			s.logger.Error("alert delivery failed, keeping pending", "message", alert.Message, "error", err)

			if s.metrics != nil {
				s.metrics.RecordAlertDelivery(ctx, "failed")
			}

			continue
		}

		if err := s.repo.DeleteDelivered(ctx, alert); err != nil {
			s.logger.Error("delivered alert not removed from queue", "message", alert.Message, "error", err)
		}

		delivered++

		if s.metrics != nil {
			s.metrics.RecordAlertDelivery(ctx, "delivered")
		}
	}

	s.logger.Info("alert flush finished", "pending", len(pending), "delivered", delivered)

	return delivered, nil
}

// Trigger queues a manual alert with the current time.
func (s *AlertsService) Trigger(ctx context.Context, message string) (models.Alert, error) {
	alert := models.Alert{
		Timestamp: time.Now().UTC(),
		Message:   message,
	}

	if err := s.Raise(ctx, alert, "manual"); err != nil {
		return models.Alert{}, err
	}

	return alert, nil
}

// Delete removes a pending alert by index or timestamp. Exactly one selector
// must be set.
func (s *AlertsService) Delete(ctx context.Context, req *models.DeleteAlertRequest) error {
	switch {
	case req.Index != nil && req.Timestamp != nil:
		return apperrors.NewValidationError("index", "provide either index or timestamp, not both")
	case req.Index != nil:
		return s.repo.DeleteByIndex(ctx, *req.Index)
	case req.Timestamp != nil:
		return s.repo.DeleteByTimestamp(ctx, *req.Timestamp)
	default:
		return apperrors.NewValidationError("index", "either index or timestamp is required")
	}
}
