// Package worker provides background workers for the hub API.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/supportdesk/hub/internal/models"
)

// GapAnalysisRunner runs one gap-analysis pass.
type GapAnalysisRunner interface {
	RunGapAnalysis(ctx context.Context) (*models.GapReport, error)
}

// AlertFlusher attempts delivery of pending alerts.
type AlertFlusher interface {
	Flush(ctx context.Context) (int, error)
}

// GapScheduler is a background worker that periodically runs gap analysis and
// then flushes the pending alert queue.
type GapScheduler struct {
	analysis GapAnalysisRunner
	alerts   AlertFlusher
	interval time.Duration
}

// NewGapScheduler creates a new gap-analysis scheduler.
func NewGapScheduler(analysis GapAnalysisRunner, alerts AlertFlusher, interval time.Duration) *GapScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	return &GapScheduler{
		analysis: analysis,
		alerts:   alerts,
		interval: interval,
	}
}

// Start begins the scheduler loop. It runs immediately on startup and then on
// every tick, until the context is cancelled.
func (w *GapScheduler) Start(ctx context.Context) {
	slog.Info("gap analysis scheduler started", "interval", w.interval)

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("gap analysis scheduler stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce runs one analysis pass and flushes alerts. Failures are logged and
// retried on the next tick; the loop itself never dies.
func (w *GapScheduler) runOnce(ctx context.Context) {
	report, err := w.analysis.RunGapAnalysis(ctx)
	if err != nil {
		slog.Error("scheduled gap analysis failed", "error", err)

		return
	}

	slog.Info("scheduled gap analysis finished",
		"coverage_percent", report.Summary.CoveragePercent,
		"low_ctr_articles", len(report.LowCTR),
	)

	delivered, err := w.alerts.Flush(ctx)
	if err != nil {
		slog.Error("alert flush failed", "error", err)

		return
	}

	if delivered > 0 {
		slog.Info("alerts delivered", "count", delivered)
	}
}
