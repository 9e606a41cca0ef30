package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
)

// AlertsRepository stores pending alerts. Rows are removed only when delivery
// is confirmed or an operator deletes them, so undelivered alerts survive
// restarts and sink outages.
type AlertsRepository struct {
	db *pgxpool.Pool
}

// NewAlertsRepository creates a new alerts repository.
func NewAlertsRepository(db *pgxpool.Pool) *AlertsRepository {
	return &AlertsRepository{db: db}
}

// Append queues a new pending alert.
func (r *AlertsRepository) Append(ctx context.Context, alert models.Alert) error {
	query := `
		INSERT INTO alerts (created_at, message)
		VALUES ($1, $2)
	`

	_, err := r.db.Exec(ctx, query, alert.Timestamp, alert.Message)
	if err != nil {
		return fmt.Errorf("append alert: %w", err)
	}

	return nil
}

// List returns pending alerts oldest first, the order they are flushed in.
func (r *AlertsRepository) List(ctx context.Context) ([]models.Alert, error) {
	query := `
		SELECT created_at, message
		FROM alerts
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.Alert{}

	for rows.Next() {
		var alert models.Alert
		if err := rows.Scan(&alert.Timestamp, &alert.Message); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}

	return alerts, nil
}

// DeleteByIndex removes the alert at the given position in the pending list,
// counted oldest first.
func (r *AlertsRepository) DeleteByIndex(ctx context.Context, index int) error {
	if index < 0 {
		return apperrors.NewValidationError("index", "index must be non-negative")
	}

	query := `
		DELETE FROM alerts
		WHERE id = (
			SELECT id FROM alerts
			ORDER BY created_at ASC, id ASC
			OFFSET $1 LIMIT 1
		)
	`

	tag, err := r.db.Exec(ctx, query, index)
	if err != nil {
		return fmt.Errorf("delete alert by index: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("alert", fmt.Sprintf("no alert at index %d", index))
	}

	return nil
}

// DeleteByTimestamp removes all pending alerts with an exact timestamp match.
func (r *AlertsRepository) DeleteByTimestamp(ctx context.Context, ts time.Time) error {
	query := `
		DELETE FROM alerts
		WHERE created_at = $1
	`

	tag, err := r.db.Exec(ctx, query, ts)
	if err != nil {
		return fmt.Errorf("delete alert by timestamp: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("alert", "no alert with the given timestamp")
	}

	return nil
}

// DeleteDelivered removes one alert after its delivery was confirmed. The match
// is by timestamp and message so concurrent deliveries cannot remove each
// other's rows.
func (r *AlertsRepository) DeleteDelivered(ctx context.Context, alert models.Alert) error {
	query := `
		DELETE FROM alerts
		WHERE id = (
			SELECT id FROM alerts
			WHERE created_at = $1 AND message = $2
			ORDER BY id ASC
			LIMIT 1
		)
	`

	_, err := r.db.Exec(ctx, query, alert.Timestamp, alert.Message)
	if err != nil {
		return fmt.Errorf("delete delivered alert: %w", err)
	}

	return nil
}
