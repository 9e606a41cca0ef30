package models

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

// Valid ticket statuses.
const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// ParseTicketStatus parses a status name case-insensitively.
func ParseTicketStatus(s string) (TicketStatus, error) {
	for _, st := range []TicketStatus{TicketStatusOpen, TicketStatusResolved, TicketStatusClosed} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}

	return "", fmt.Errorf("unknown ticket status: %q", s)
}

// IsResolved reports whether the status counts as handled for resolution-rate purposes.
func (s TicketStatus) IsResolved() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// Ticket is a support ticket. RecommendedArticleIDs is a point-in-time snapshot of
// the recommendation given at creation; it is never updated afterwards.
type Ticket struct {
	ID                    string       `json:"id"`
	Title                 string       `json:"title"`
	Description           string       `json:"description"`
	CustomerName          string       `json:"customer_name"`
	Status                TicketStatus `json:"status"`
	Category              Category     `json:"category"`
	Tags                  []string     `json:"tags"`
	RecommendedArticleIDs []string     `json:"recommended_article_ids"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// HasRecommendations reports whether the ticket received at least one recommendation.
func (t *Ticket) HasRecommendations() bool {
	return len(t.RecommendedArticleIDs) > 0
}

// CreateTicketRequest is the request to open a new ticket.
type CreateTicketRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=500"`
	Description  string `json:"description" validate:"required,min=5"`
	CustomerName string `json:"customer_name" validate:"required,min=2,max=255"`
}

// UpdateTicketRequest is the request to change a ticket's status.
type UpdateTicketRequest struct {
	Status TicketStatus `json:"status" validate:"required,ticket_status"`
}
