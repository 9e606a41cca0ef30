package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supportdesk/hub/internal/models"
)

// FeedbackRepository handles data access for feedback entries.
type FeedbackRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Upsert records feedback for a (ticket_id, article_id) pair. A resubmission for
// the same pair overwrites the previous entry in place: the stored id stays, only
// correct/notes/timestamp change, and the log length does not grow. NULL ticket
// ids collapse to one slot per article via the COALESCE unique index, matching
// standalone-query feedback semantics.
func (r *FeedbackRepository) Upsert(ctx context.Context, entry *models.FeedbackEntry) (*models.FeedbackEntry, error) {
	query := `
		INSERT INTO feedback_entries (id, ticket_id, article_id, correct, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (COALESCE(ticket_id, ''), article_id) DO UPDATE
		SET correct = EXCLUDED.correct, notes = EXCLUDED.notes, created_at = EXCLUDED.created_at
		RETURNING id, ticket_id, article_id, correct, notes, created_at
	`

	var stored models.FeedbackEntry

	err := r.db.QueryRow(ctx, query,
		entry.ID, entry.TicketID, entry.ArticleID, entry.Correct, entry.Notes, entry.Timestamp,
	).Scan(
		&stored.ID, &stored.TicketID, &stored.ArticleID,
		&stored.Correct, &stored.Notes, &stored.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert feedback: %w", err)
	}

	return &stored, nil
}

// List retrieves the full feedback log in submission order.
func (r *FeedbackRepository) List(ctx context.Context) ([]models.FeedbackEntry, error) {
	query := `
		SELECT id, ticket_id, article_id, correct, notes, created_at
		FROM feedback_entries
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var entries []models.FeedbackEntry

	for rows.Next() {
		var e models.FeedbackEntry

		err := rows.Scan(&e.ID, &e.TicketID, &e.ArticleID, &e.Correct, &e.Notes, &e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}

	return entries, nil
}
