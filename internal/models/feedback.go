package models

import "time"

// FeedbackEntry records whether a recommended article was relevant for a ticket or
// standalone query. At most one entry exists per (ticket_id, article_id) pair; a
// later submission for the same pair overwrites the previous one, keeping its id.
type FeedbackEntry struct {
	ID        string    `json:"id"`
	TicketID  *string   `json:"ticket_id,omitempty"`
	ArticleID string    `json:"article_id"`
	Correct   bool      `json:"correct"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmitFeedbackRequest is the request to record feedback for a recommendation.
// TicketID is optional: feedback may reference a standalone query.
type SubmitFeedbackRequest struct {
	TicketID  *string `json:"ticket_id,omitempty" validate:"omitempty,max=255"`
	ArticleID string  `json:"article_id" validate:"required,max=255"`
	Correct   *bool   `json:"correct" validate:"required"`
	Notes     string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// FeedbackMetrics are precision/recall/F1 derived from the feedback log.
// Recall is a pseudo-recall against labeled-feedback volume, not a ground-truth universe.
type FeedbackMetrics struct {
	CountFeedback  int     `json:"count_feedback"`
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
}

// AccuracyPercent is the share of correct entries in the feedback log, in percent
// rounded to 2 decimals. Zero when the log is empty.
func AccuracyPercent(entries []FeedbackEntry) float64 {
	if len(entries) == 0 {
		return 0
	}

	correct := 0

	for _, e := range entries {
		if e.Correct {
			correct++
		}
	}

	return Round2(float64(correct) / float64(len(entries)) * 100)
}
