package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/supportdesk/hub/internal/intent"
	"github.com/supportdesk/hub/internal/models"
)

// TicketsRepository defines the interface for ticket data access.
type TicketsRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	List(ctx context.Context) ([]models.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status models.TicketStatus) (*models.Ticket, error)
}

// recommendProvider is the ranking dependency of the ticket flow.
type recommendProvider interface {
	Recommend(ctx context.Context, query, category string, topK int, ticketID *string, source string) ([]models.RankedArticle, error)
}

// TicketService handles the ticket lifecycle. At creation the ticket is
// classified and receives a recommendation snapshot; the snapshot is immutable
// afterwards so gap analysis sees what was actually suggested at the time.
type TicketService struct {
	repo        TicketsRepository
	classifier  intent.Classifier
	recommender recommendProvider
}

// NewTicketService creates a new ticket service.
func NewTicketService(repo TicketsRepository, classifier intent.Classifier, recommender recommendProvider) *TicketService {
	return &TicketService{
		repo:        repo,
		classifier:  classifier,
		recommender: recommender,
	}
}

// CreateTicket classifies the ticket, records a top-1 recommendation within the
// classified category, and stores the ticket with the recommendation snapshot.
// Classification and recommendation failures degrade (Other category, empty
// snapshot); ticket creation itself never fails on them.
func (s *TicketService) CreateTicket(ctx context.Context, req *models.CreateTicketRequest) (*models.Ticket, error) {
	text := req.Title + " " + req.Description

	category, err := s.classifier.Classify(ctx, text)
	if err != nil {
		slog.Warn("ticket: classify failed, using Other", "title", req.Title, "error", err)

		category = models.CategoryOther
	}

	tags, err := s.classifier.Tags(ctx, text)
	if err != nil {
		slog.Warn("ticket: tag derivation failed", "title", req.Title, "error", err)

		tags = nil
	}

	now := time.Now().UTC()
	ticket := &models.Ticket{
		ID:           "t_" + uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		CustomerName: req.CustomerName,
		Status:       models.TicketStatusOpen,
		Category:     category,
		Tags:         tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ranked, err := s.recommender.Recommend(ctx, req.Description, string(category), 1, &ticket.ID, "ticket_create")
	if err != nil {
		slog.Warn("ticket: recommendation failed, storing without snapshot", "ticket_id", ticket.ID, "error", err)
	}

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ArticleID
	}

	ticket.RecommendedArticleIDs = ids

	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	return ticket, nil
}

// ListTickets retrieves all tickets, newest first.
func (s *TicketService) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return s.repo.List(ctx)
}

// UpdateTicketStatus changes a ticket's status. The recommendation snapshot is
// untouched.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, id string, status models.TicketStatus) (*models.Ticket, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}
