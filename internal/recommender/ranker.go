package recommender

import (
	"sort"
	"strings"

	"github.com/supportdesk/hub/internal/models"
)

// Rank scores articles for a query and returns the top-k (article id, score)
// pairs, highest first. When category is non-empty, candidates are filtered to
// articles whose category contains it case-insensitively; a filter that
// eliminates every candidate is skipped entirely and the full set is scored
// with the primary weighting, so the result is never empty while at least one
// article exists. Ties keep the original article order (stable sort); topK <= 0
// yields an empty result; topK beyond the candidate count yields all candidates.
func Rank(q Query, articles []*models.Article, topK int, category string) []models.RankedArticle {
	if topK <= 0 || len(articles) == 0 {
		return []models.RankedArticle{}
	}

	candidates := filterByCategory(articles, category)
	if len(candidates) == 0 {
		// Category filter eliminated everything; drop the filter for this call.
		candidates = articles
	}

	scored := make([]models.RankedArticle, 0, len(candidates))
	for _, art := range candidates {
		scored = append(scored, models.RankedArticle{ArticleID: art.ID, Score: Score(q, art)})
	}

	if len(scored) == 0 {
		// Primary pass produced nothing; rescore the full set without boosts.
		for _, art := range articles {
			scored = append(scored, models.RankedArticle{ArticleID: art.ID, Score: fallbackScore(q, art)})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}

	return scored
}

// filterByCategory keeps articles whose category contains the requested one,
// case-insensitively. An empty category keeps everything.
func filterByCategory(articles []*models.Article, category string) []*models.Article {
	if category == "" {
		return articles
	}

	want := strings.ToLower(category)

	var filtered []*models.Article

	for _, art := range articles {
		if strings.Contains(strings.ToLower(string(art.Category)), want) {
			filtered = append(filtered, art)
		}
	}

	return filtered
}
