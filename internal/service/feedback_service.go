package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/supportdesk/hub/internal/alerting"
	"github.com/supportdesk/hub/internal/evaluation"
	"github.com/supportdesk/hub/internal/models"
)

// FeedbackRepository defines the interface for feedback data access.
type FeedbackRepository interface {
	Upsert(ctx context.Context, entry *models.FeedbackEntry) (*models.FeedbackEntry, error)
	List(ctx context.Context) ([]models.FeedbackEntry, error)
}

// alertRaiser is the alert queue dependency of the feedback flow.
type alertRaiser interface {
	Raise(ctx context.Context, alert models.Alert, kind string) error
}

// FeedbackResult is a submission outcome: the stored entry plus the running
// accuracy over the whole feedback log.
type FeedbackResult struct {
	Entry           models.FeedbackEntry `json:"entry"`
	AccuracyPercent float64              `json:"accuracy_percent"`
}

// FeedbackService records recommendation feedback and watches running accuracy.
// A resubmission for the same (ticket, article) pair overwrites the earlier
// entry, keeping its id, so the log never double-counts a pair.
type FeedbackService struct {
	repo       FeedbackRepository
	alerts     alertRaiser
	thresholds alerting.Thresholds
}

// NewFeedbackService creates a new feedback service. alerts may be nil
// (accuracy drops are then only logged).
func NewFeedbackService(repo FeedbackRepository, alerts alertRaiser, thresholds alerting.Thresholds) *FeedbackService {
	return &FeedbackService{
		repo:       repo,
		alerts:     alerts,
		thresholds: thresholds,
	}
}

// SubmitFeedback upserts the entry and recomputes running accuracy. When
// accuracy falls below the configured minimum, an alert is queued; queueing
// failures never fail the submission.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, req *models.SubmitFeedbackRequest) (*FeedbackResult, error) {
	entry := &models.FeedbackEntry{
		ID:        "fb_" + uuid.NewString(),
		TicketID:  req.TicketID,
		ArticleID: req.ArticleID,
		Correct:   *req.Correct,
		Notes:     req.Notes,
		Timestamp: time.Now().UTC(),
	}

	stored, err := s.repo.Upsert(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("upsert feedback: %w", err)
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	accuracy := models.AccuracyPercent(entries)

	if alert := s.thresholds.EvaluateAccuracy(time.Now().UTC(), accuracy, len(entries)); alert != nil {
		if s.alerts == nil {
			slog.Warn("feedback: accuracy below threshold, no alert queue configured", "accuracy_percent", accuracy)
		} else if raiseErr := s.alerts.Raise(ctx, *alert, "accuracy"); raiseErr != nil {
			slog.Error("feedback: queue accuracy alert failed", "accuracy_percent", accuracy, "error", raiseErr)
		}
	}

	return &FeedbackResult{
		Entry:           *stored,
		AccuracyPercent: accuracy,
	}, nil
}

// ListFeedback retrieves all feedback entries in submission order.
func (s *FeedbackService) ListFeedback(ctx context.Context) ([]models.FeedbackEntry, error) {
	return s.repo.List(ctx)
}

// FeedbackMetrics computes precision/pseudo-recall/F1 over the feedback log.
func (s *FeedbackService) FeedbackMetrics(ctx context.Context) (models.FeedbackMetrics, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return models.FeedbackMetrics{}, fmt.Errorf("list feedback: %w", err)
	}

	return evaluation.FromFeedback(entries), nil
}
