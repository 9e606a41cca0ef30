package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supportdesk/hub/internal/models"
)

// ImpressionsRepository is the append-only log of ranking invocations. Records
// are inserted once and only ever read in aggregate; there is no update or
// delete path. The database serializes concurrent appends, giving the
// single-writer discipline per log resource.
type ImpressionsRepository struct {
	db *pgxpool.Pool
}

// NewImpressionsRepository creates a new impressions repository.
func NewImpressionsRepository(db *pgxpool.Pool) *ImpressionsRepository {
	return &ImpressionsRepository{db: db}
}

// Append writes one impression record for a ranking invocation.
func (r *ImpressionsRepository) Append(ctx context.Context, record models.ImpressionRecord) error {
	query := `
		INSERT INTO impressions (created_at, ticket_id, description, recommended_ids)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		record.Timestamp, record.TicketID, record.Description, record.RecommendedIDs,
	)
	if err != nil {
		return fmt.Errorf("append impression: %w", err)
	}

	return nil
}

// CountByArticle counts article appearances across all impression records.
func (r *ImpressionsRepository) CountByArticle(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT article_id, count(*)
		FROM impressions, unnest(recommended_ids) AS article_id
		GROUP BY article_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count impressions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var (
			articleID string
			count     int
		)

		if err := rows.Scan(&articleID, &count); err != nil {
			return nil, fmt.Errorf("scan impression count: %w", err)
		}

		counts[articleID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate impression counts: %w", err)
	}

	return counts, nil
}
