package gapanalysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/hub/internal/models"
)

func strPtr(s string) *string { return &s }

func TestAnalyze_CTR(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	articles := []*models.Article{{ID: "a1", Title: "Tracking your order"}}

	in := Inputs{
		Articles: articles,
		Feedback: []models.FeedbackEntry{
			{ArticleID: "a1", Correct: true, TicketID: strPtr("t_1")},
			{ArticleID: "a1", Correct: true, TicketID: strPtr("t_2")},
		},
		Impressions: map[string]int{"a1": 10},
	}

	report := Analyze(now, in)

	require.Len(t, report.PerArticle, 1)
	stat := report.PerArticle[0]
	assert.Equal(t, 10, stat.Impressions)
	assert.Equal(t, 2, stat.Clicks)
	assert.InDelta(t, 20.0, stat.CTR, 1e-9)

	// CTR 20% is above the 10% threshold, so a1 must not be flagged.
	assert.Empty(t, report.LowCTR)
}

func TestAnalyze_LowCTRFlagging(t *testing.T) {
	in := Inputs{
		Articles: []*models.Article{
			{ID: "cold", Title: "Never clicked"},
			{ID: "unseen", Title: "Never shown"},
		},
		Impressions: map[string]int{"cold": 25},
	}

	report := Analyze(time.Now(), in)

	require.Len(t, report.LowCTR, 1, "only articles with impressions can be low-CTR")
	assert.Equal(t, "cold", report.LowCTR[0].ArticleID)
	assert.Zero(t, report.LowCTR[0].CTR)

	// The unseen article has zero impressions and CTR 0.0 but is not flagged.
	for _, stat := range report.PerArticle {
		if stat.ArticleID == "unseen" {
			assert.Zero(t, stat.Impressions)
			assert.Zero(t, stat.CTR)
		}
	}
}

func TestAnalyze_CoverageAndResolution(t *testing.T) {
	in := Inputs{
		Tickets: []models.Ticket{
			{ID: "t_1", Status: models.TicketStatusResolved, RecommendedArticleIDs: []string{"a1"}},
			{ID: "t_2", Status: models.TicketStatusOpen, RecommendedArticleIDs: []string{"a1"}},
			{ID: "t_3", Status: models.TicketStatusClosed, RecommendedArticleIDs: []string{"a2"}},
			{ID: "t_4", Status: models.TicketStatusOpen},
		},
	}

	summary := Analyze(time.Now(), in).Summary

	assert.Equal(t, 4, summary.TotalTickets)
	assert.Equal(t, 3, summary.TicketsWithRecommendations)
	assert.InDelta(t, 75.0, summary.CoveragePercent, 1e-9)
	// 2 of 3 recommended tickets are resolved or closed.
	assert.InDelta(t, 66.67, summary.ResolutionRatePercent, 1e-9)
}

func TestAnalyze_NoTickets(t *testing.T) {
	summary := Analyze(time.Now(), Inputs{}).Summary

	assert.Zero(t, summary.TotalTickets)
	assert.Zero(t, summary.CoveragePercent, "no tickets yields 0 coverage, not a division by zero")
	assert.Zero(t, summary.ResolutionRatePercent)
}

func TestCountImpressionsFromRecords(t *testing.T) {
	records := []models.ImpressionRecord{
		{RecommendedIDs: []string{"a1", "a2"}},
		{RecommendedIDs: []string{"a1"}},
		{RecommendedIDs: nil},
	}

	counts := models.CountImpressions(records)
	assert.Equal(t, 2, counts["a1"])
	assert.Equal(t, 1, counts["a2"])
}
