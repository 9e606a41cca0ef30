package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
)

// GapReportsRepository stores dated gap-analysis snapshots. Every run inserts a
// new row; prior artifacts are never overwritten (append-only history).
type GapReportsRepository struct {
	db *pgxpool.Pool
}

// NewGapReportsRepository creates a new gap reports repository.
func NewGapReportsRepository(db *pgxpool.Pool) *GapReportsRepository {
	return &GapReportsRepository{db: db}
}

// Insert persists one run's report under its report date.
func (r *GapReportsRepository) Insert(ctx context.Context, report models.GapReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal gap report: %w", err)
	}

	query := `
		INSERT INTO gap_reports (report_date, created_at, report)
		VALUES ($1, $2, $3)
	`

	_, err = r.db.Exec(ctx, query, report.Summary.Date, report.Summary.Date, payload)
	if err != nil {
		return fmt.Errorf("insert gap report: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent report.
func (r *GapReportsRepository) GetLatest(ctx context.Context) (*models.GapReport, error) {
	query := `
		SELECT report
		FROM gap_reports
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var payload []byte

	err := r.db.QueryRow(ctx, query).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("gap report", "no gap report yet")
		}

		return nil, fmt.Errorf("get latest gap report: %w", err)
	}

	var report models.GapReport
	if err := json.Unmarshal(payload, &report); err != nil {
		// Corrupt history degrades to "no report" rather than failing the caller.
		return nil, apperrors.NewNotFoundError("gap report", "stored gap report unreadable")
	}

	return &report, nil
}
