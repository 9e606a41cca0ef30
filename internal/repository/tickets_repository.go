package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
)

// TicketsRepository handles data access for support tickets.
type TicketsRepository struct {
	db *pgxpool.Pool
}

// NewTicketsRepository creates a new tickets repository.
func NewTicketsRepository(db *pgxpool.Pool) *TicketsRepository {
	return &TicketsRepository{db: db}
}

// Create inserts a new ticket, including its recommendation snapshot.
func (r *TicketsRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (id, title, description, customer_name, status, category, tags,
			recommended_article_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`

	_, err := r.db.Exec(ctx, query,
		ticket.ID, ticket.Title, ticket.Description, ticket.CustomerName,
		string(ticket.Status), string(ticket.Category), ticket.Tags,
		ticket.RecommendedArticleIDs, ticket.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}

	return nil
}

// List retrieves all tickets, newest first.
func (r *TicketsRepository) List(ctx context.Context) ([]models.Ticket, error) {
	query := `
		SELECT id, title, description, customer_name, status, category, tags,
			recommended_article_ids, created_at, updated_at
		FROM tickets
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.Ticket

	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}

		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}

// UpdateStatus changes a ticket's status and returns the updated ticket.
// The recommendation snapshot is immutable and never touched here.
func (r *TicketsRepository) UpdateStatus(ctx context.Context, id string, status models.TicketStatus) (*models.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, title, description, customer_name, status, category, tags,
			recommended_article_ids, created_at, updated_at
	`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("ticket", "ticket not found")
		}

		return nil, fmt.Errorf("update ticket status: %w", err)
	}

	return &ticket, nil
}

func scanTicket(row pgx.Row) (models.Ticket, error) {
	var (
		ticket   models.Ticket
		status   string
		category string
	)

	err := row.Scan(
		&ticket.ID, &ticket.Title, &ticket.Description, &ticket.CustomerName,
		&status, &category, &ticket.Tags, &ticket.RecommendedArticleIDs,
		&ticket.CreatedAt, &ticket.UpdatedAt,
	)
	if err != nil {
		return models.Ticket{}, err
	}

	ticket.Status = models.TicketStatus(status)
	ticket.Category = models.Category(category)

	return ticket, nil
}
