package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/supportdesk/hub/internal/alerting"
	"github.com/supportdesk/hub/internal/gapanalysis"
	"github.com/supportdesk/hub/internal/models"
	"github.com/supportdesk/hub/internal/observability"
)

// ImpressionsCounter derives per-article impression counts from the log.
type ImpressionsCounter interface {
	CountByArticle(ctx context.Context) (map[string]int, error)
}

// GapReportsRepository defines the interface for gap-report snapshots.
type GapReportsRepository interface {
	Insert(ctx context.Context, report models.GapReport) error
	GetLatest(ctx context.Context) (*models.GapReport, error)
}

// AnalysisService computes content-gap reports over the article, ticket,
// feedback, and impression data. Runs are serialized: the scheduler and the
// HTTP trigger share one mutex so concurrent runs cannot interleave snapshots.
type AnalysisService struct {
	articles    ArticlesRepository
	tickets     TicketsRepository
	feedback    FeedbackRepository
	impressions ImpressionsCounter
	reports     GapReportsRepository
	alerts      alertRaiser
	thresholds  alerting.Thresholds
	metrics     observability.HubMetrics
	logger      *slog.Logger

	mu sync.Mutex
}

// AnalysisServiceParams configures AnalysisService. Alerts and Metrics may be nil.
type AnalysisServiceParams struct {
	Articles    ArticlesRepository
	Tickets     TicketsRepository
	Feedback    FeedbackRepository
	Impressions ImpressionsCounter
	Reports     GapReportsRepository
	Alerts      alertRaiser
	Thresholds  alerting.Thresholds
	Metrics     observability.HubMetrics
	Logger      *slog.Logger
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(p AnalysisServiceParams) *AnalysisService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AnalysisService{
		articles:    p.Articles,
		tickets:     p.Tickets,
		feedback:    p.Feedback,
		impressions: p.Impressions,
		reports:     p.Reports,
		alerts:      p.Alerts,
		thresholds:  p.Thresholds,
		metrics:     p.Metrics,
		logger:      logger,
	}
}

// RunGapAnalysis gathers inputs, computes the report, persists a dated
// snapshot, and queues alerts for crossed thresholds. A healthy run queues
// nothing and logs one OK line.
func (s *AnalysisService) RunGapAnalysis(ctx context.Context) (*models.GapReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	feedback, err := s.feedback.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	impressions, err := s.impressions.CountByArticle(ctx)
	if err != nil {
		return nil, fmt.Errorf("count impressions: %w", err)
	}

	now := time.Now().UTC()
	report := gapanalysis.Analyze(now, gapanalysis.Inputs{
		Articles:    articles,
		Tickets:     tickets,
		Feedback:    feedback,
		Impressions: impressions,
	})

	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, fmt.Errorf("persist gap report: %w", err)
	}

	alerts := s.thresholds.Evaluate(now, report)
	for _, alert := range alerts {
		if s.alerts == nil {
			continue
		}

		if raiseErr := s.alerts.Raise(ctx, alert, alertKind(alert.Message)); raiseErr != nil {
			s.logger.Error("gap analysis: queue alert failed", "message", alert.Message, "error", raiseErr)
		}
	}

	if len(alerts) == 0 {
		s.logger.Info("gap analysis OK, no thresholds crossed",
			"coverage_percent", report.Summary.CoveragePercent,
			"low_ctr_articles", len(report.LowCTR),
		)
	} else {
		s.logger.Warn("gap analysis crossed thresholds",
			"coverage_percent", report.Summary.CoveragePercent,
			"low_ctr_articles", len(report.LowCTR),
			"alerts", len(alerts),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordGapAnalysisRun(ctx, time.Since(start))
	}

	return &report, nil
}

// LatestReport retrieves the most recent snapshot.
func (s *AnalysisService) LatestReport(ctx context.Context) (*models.GapReport, error) {
	return s.reports.GetLatest(ctx)
}

// alertKind labels a policy alert for metrics by its message shape.
func alertKind(message string) string {
	switch {
	case strings.HasPrefix(message, "Low coverage"):
		return "coverage"
	case strings.Contains(message, "low-CTR"):
		return "low_ctr"
	case strings.HasPrefix(message, "Accuracy"):
		return "accuracy"
	default:
		return "unknown"
	}
}
