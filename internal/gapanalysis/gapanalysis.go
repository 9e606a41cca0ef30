// Package gapanalysis aggregates impressions and feedback into per-article
// click-through statistics and overall coverage metrics. Output is a disposable
// derivation recomputed on every run, never incrementally patched.
package gapanalysis

import (
	"time"

	"github.com/supportdesk/hub/internal/models"
)

// LowCTRThreshold is the click-through percentage below which an article with
// impressions counts as under-performing.
const LowCTRThreshold = 10.0

// Inputs is a consistent snapshot of the data a gap-analysis run reads.
// Impressions maps article id to appearance count across impression records
// (see models.CountImpressions).
type Inputs struct {
	Articles    []*models.Article
	Tickets     []models.Ticket
	Feedback    []models.FeedbackEntry
	Impressions map[string]int
}

// Analyze computes the full gap report for one run: per-article stats for every
// known article, the low-CTR set, and the coverage summary. Pure and idempotent
// over its inputs.
func Analyze(now time.Time, in Inputs) models.GapReport {
	clicks := countClicks(in.Feedback)

	perArticle := make([]models.PerArticleStat, 0, len(in.Articles))

	var lowCTR []models.PerArticleStat

	for _, art := range in.Articles {
		stat := models.PerArticleStat{
			ArticleID:   art.ID,
			Title:       art.Title,
			Impressions: in.Impressions[art.ID],
			Clicks:      clicks[art.ID],
		}

		if stat.Impressions > 0 {
			stat.CTR = models.Round2(float64(stat.Clicks) / float64(stat.Impressions) * 100)
		}

		perArticle = append(perArticle, stat)

		if stat.Impressions > 0 && stat.CTR < LowCTRThreshold {
			lowCTR = append(lowCTR, stat)
		}
	}

	return models.GapReport{
		Summary:    summarize(now, len(in.Articles), in.Tickets, len(in.Feedback)),
		PerArticle: perArticle,
		LowCTR:     lowCTR,
	}
}

// countClicks counts correct-feedback entries per article id.
func countClicks(feedback []models.FeedbackEntry) map[string]int {
	clicks := make(map[string]int)

	for _, e := range feedback {
		if e.Correct {
			clicks[e.ArticleID]++
		}
	}

	return clicks
}

// summarize computes ticket coverage and resolution rate. Both guard division by
// zero: no tickets means 0% coverage, no recommended tickets means 0% resolution.
func summarize(now time.Time, totalArticles int, tickets []models.Ticket, totalFeedback int) models.GapSummary {
	summary := models.GapSummary{
		Date:          now.UTC(),
		TotalArticles: totalArticles,
		TotalTickets:  len(tickets),
		TotalFeedback: totalFeedback,
	}

	resolvedWithRecs := 0

	for _, t := range tickets {
		if !t.HasRecommendations() {
			continue
		}

		summary.TicketsWithRecommendations++

		if t.Status.IsResolved() {
			resolvedWithRecs++
		}
	}

	if summary.TotalTickets > 0 {
		summary.CoveragePercent = models.Round2(
			float64(summary.TicketsWithRecommendations) / float64(summary.TotalTickets) * 100)
	}

	if summary.TicketsWithRecommendations > 0 {
		summary.ResolutionRatePercent = models.Round2(
			float64(resolvedWithRecs) / float64(summary.TicketsWithRecommendations) * 100)
	}

	return summary
}
