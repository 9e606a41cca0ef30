package models

import "time"

// ImpressionRecord is one append-only log entry per ranking invocation. Records are
// only ever counted in aggregate per article id; they are never mutated or deleted.
type ImpressionRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	TicketID       *string   `json:"ticket_id,omitempty"`
	Description    string    `json:"description"`
	RecommendedIDs []string  `json:"recommended_ids"`
}

// CountImpressions counts article appearances across impression records.
func CountImpressions(records []ImpressionRecord) map[string]int {
	counts := make(map[string]int)

	for _, rec := range records {
		for _, id := range rec.RecommendedIDs {
			counts[id]++
		}
	}

	return counts
}
