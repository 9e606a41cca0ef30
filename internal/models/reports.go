package models

import (
	"math"
	"time"
)

// PerArticleStat is the derived impression/click statistic for one article.
// It is recomputed on every gap-analysis run, never incrementally patched.
type PerArticleStat struct {
	ArticleID   string  `json:"article_id"`
	Title       string  `json:"title"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// GapSummary is the overall health snapshot produced by a gap-analysis run.
type GapSummary struct {
	Date                       time.Time `json:"date"`
	TotalArticles              int       `json:"total_articles"`
	TotalTickets               int       `json:"total_tickets"`
	TicketsWithRecommendations int       `json:"tickets_with_recommendations"`
	CoveragePercent            float64   `json:"coverage_percent"`
	ResolutionRatePercent      float64   `json:"resolution_rate_percent"`
	TotalFeedback              int       `json:"total_feedback"`
}

// GapReport is the full artifact of one gap-analysis run: summary, per-article
// stats, and the set of under-performing (low click-through) articles.
type GapReport struct {
	Summary    GapSummary       `json:"summary"`
	PerArticle []PerArticleStat `json:"per_article"`
	LowCTR     []PerArticleStat `json:"low_ctr"`
}

// DatasetItem is one labeled example for offline evaluation.
type DatasetItem struct {
	Description          string `json:"description" validate:"required"`
	GroundTruthArticleID string `json:"ground_truth_article_id" validate:"required"`
}

// DatasetItemResult is the per-item prediction detail returned for auditability.
type DatasetItemResult struct {
	Description string   `json:"description"`
	GroundTruth string   `json:"ground_truth"`
	Predictions []string `json:"preds"`
	Hit         bool     `json:"hit"`
}

// DatasetMetrics aggregates labeled-dataset evaluation results.
type DatasetMetrics struct {
	Count          int                 `json:"count"`
	TruePositives  int                 `json:"true_positives"`
	FalsePositives int                 `json:"false_positives"`
	FalseNegatives int                 `json:"false_negatives"`
	Precision      float64             `json:"precision"`
	Recall         float64             `json:"recall"`
	F1             float64             `json:"f1"`
	Details        []DatasetItemResult `json:"details"`
}

// Round2 rounds to 2 decimal places (percentages).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimal places (scores and metric values).
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
