// Package alerting evaluates gap-analysis output and feedback accuracy against
// static thresholds and produces alert events.
package alerting

import (
	"fmt"
	"time"

	"github.com/supportdesk/hub/internal/models"
)

// Default thresholds, in percent.
const (
	DefaultMinCoverage = 70.0
	DefaultLowCTR      = 10.0
	DefaultMinAccuracy = 60.0
)

// Thresholds are the static limits the policy evaluates against.
type Thresholds struct {
	MinCoveragePercent float64
	LowCTRPercent      float64
	MinAccuracyPercent float64
}

// DefaultThresholds returns the reference thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinCoveragePercent: DefaultMinCoverage,
		LowCTRPercent:      DefaultLowCTR,
		MinAccuracyPercent: DefaultMinAccuracy,
	}
}

// Evaluate checks a gap report against the thresholds. Each crossed threshold
// yields an independent, human-readable alert; simultaneous conditions are
// returned as a set, never collapsed into one message. Pure function of its inputs.
func (t Thresholds) Evaluate(now time.Time, report models.GapReport) []models.Alert {
	var alerts []models.Alert

	if report.Summary.CoveragePercent < t.MinCoveragePercent {
		alerts = append(alerts, models.Alert{
			Timestamp: now.UTC(),
			Message:   fmt.Sprintf("Low coverage: %.2f%%", report.Summary.CoveragePercent),
		})
	}

	if len(report.LowCTR) > 0 {
		alerts = append(alerts, models.Alert{
			Timestamp: now.UTC(),
			Message: fmt.Sprintf("%d low-CTR articles (CTR < %.0f%%)",
				len(report.LowCTR), t.LowCTRPercent),
		})
	}

	return alerts
}

// EvaluateAccuracy checks feedback-derived accuracy. It returns nil when the log
// is empty (no signal) or accuracy is at or above the threshold.
func (t Thresholds) EvaluateAccuracy(now time.Time, accuracyPercent float64, totalFeedback int) *models.Alert {
	if totalFeedback == 0 || accuracyPercent >= t.MinAccuracyPercent {
		return nil
	}

	return &models.Alert{
		Timestamp: now.UTC(),
		Message:   fmt.Sprintf("Accuracy dropped to %.2f%%, please review recommendations", accuracyPercent),
	}
}
