package service

import (
	"context"
	"log/slog"

	"github.com/supportdesk/hub/internal/evaluation"
	"github.com/supportdesk/hub/internal/models"
)

// EvaluationService runs offline evaluation of the recommendation pipeline
// against labeled examples.
type EvaluationService struct {
	recommender recommendProvider
	logger      *slog.Logger
}

// NewEvaluationService creates an evaluation service.
func NewEvaluationService(recommender recommendProvider, logger *slog.Logger) *EvaluationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &EvaluationService{
		recommender: recommender,
		logger:      logger,
	}
}

// EvaluateDataset ranks every labeled item and aggregates hit/miss counts into
// precision/recall/F1. Items whose ranking fails contribute empty predictions
// (a miss), so one bad item cannot abort the run.
func (s *EvaluationService) EvaluateDataset(ctx context.Context, items []models.DatasetItem, topK int) models.DatasetMetrics {
	rank := func(query string, k int) []models.RankedArticle {
		ranked, err := s.recommender.Recommend(ctx, query, "", k, nil, "evaluation")
		if err != nil {
			s.logger.Warn("evaluation: ranking failed for item", "error", err)

			return nil
		}

		return ranked
	}

	return evaluation.EvaluateDataset(items, topK, rank)
}
