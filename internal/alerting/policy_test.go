package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/hub/internal/models"
)

func TestThresholds_Evaluate(t *testing.T) {
	now := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)
	th := DefaultThresholds()

	t.Run("healthy report raises nothing", func(t *testing.T) {
		report := models.GapReport{
			Summary: models.GapSummary{TotalTickets: 10, CoveragePercent: 90},
		}
		assert.Empty(t, th.Evaluate(now, report))
	})

	t.Run("low coverage raises an alert", func(t *testing.T) {
		report := models.GapReport{
			Summary: models.GapSummary{TotalTickets: 10, CoveragePercent: 42.5},
		}

		alerts := th.Evaluate(now, report)
		require.Len(t, alerts, 1)
		assert.Equal(t, "Low coverage: 42.50%", alerts[0].Message)
		assert.Equal(t, now, alerts[0].Timestamp)
	})

	t.Run("zero tickets counts as low coverage", func(t *testing.T) {
		report := models.GapReport{Summary: models.GapSummary{TotalTickets: 0, CoveragePercent: 0}}
		alerts := th.Evaluate(now, report)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].Message, "Low coverage")
	})

	t.Run("simultaneous conditions produce independent alerts", func(t *testing.T) {
		report := models.GapReport{
			Summary: models.GapSummary{TotalTickets: 10, CoveragePercent: 30},
			LowCTR: []models.PerArticleStat{
				{ArticleID: "a1", Impressions: 20, CTR: 5},
				{ArticleID: "a2", Impressions: 15, CTR: 0},
			},
		}

		alerts := th.Evaluate(now, report)
		require.Len(t, alerts, 2)
		assert.Contains(t, alerts[0].Message, "Low coverage")
		assert.Equal(t, "2 low-CTR articles (CTR < 10%)", alerts[1].Message)
	})
}

func TestThresholds_EvaluateAccuracy(t *testing.T) {
	now := time.Now()
	th := DefaultThresholds()

	t.Run("below threshold raises", func(t *testing.T) {
		alert := th.EvaluateAccuracy(now, 55.5, 20)
		require.NotNil(t, alert)
		assert.Contains(t, alert.Message, "55.50%")
	})

	t.Run("at threshold stays quiet", func(t *testing.T) {
		assert.Nil(t, th.EvaluateAccuracy(now, 60.0, 20))
	})

	t.Run("empty feedback log has no signal", func(t *testing.T) {
		assert.Nil(t, th.EvaluateAccuracy(now, 0, 0))
	})
}
