package recommender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/hub/internal/embeddings"
	"github.com/supportdesk/hub/internal/intent"
	"github.com/supportdesk/hub/internal/models"
)

func embedFor(t *testing.T, text string) []float32 {
	t.Helper()

	vec, err := embeddings.NewLocalClient().CreateEmbedding(context.Background(), text)
	require.NoError(t, err)

	return vec
}

func shippingArticles() []*models.Article {
	return []*models.Article{
		{
			ID:       "a1",
			Category: models.CategoryShipping,
			Title:    "Tracking your order",
			Content:  "information about delivery tracking and dispatch delay",
		},
		{
			ID:       "a2",
			Category: models.CategoryBilling,
			Title:    "Refunds",
			Content:  "refund and invoice details",
		},
	}
}

func TestRank_ShippingQueryPrefersShippingArticle(t *testing.T) {
	query := "my package is delayed and has not arrived"
	q := NewQuery(query, embedFor(t, query))

	assert.Contains(t, q.Intents, intent.IntentShipping, "shipping intent must be detected")

	results := Rank(q, shippingArticles(), 1, "")
	require.Len(t, results, 1)
	assert.Equal(t, "a1", results[0].ArticleID)

	// a1 outranks a2 in the full result as well.
	all := Rank(q, shippingArticles(), 2, "")
	require.Len(t, all, 2)
	assert.Equal(t, "a1", all[0].ArticleID)
	assert.Greater(t, all[0].Score, all[1].Score)
}

func TestRank_EmptyArticles(t *testing.T) {
	q := NewQuery("anything", nil)
	assert.Empty(t, Rank(q, nil, 5, ""))
}

func TestRank_TopKBounds(t *testing.T) {
	q := NewQuery("refund please", nil)
	articles := shippingArticles()

	assert.Empty(t, Rank(q, articles, 0, ""), "topK 0 yields empty")
	assert.Empty(t, Rank(q, articles, -1, ""), "negative topK yields empty")
	assert.Len(t, Rank(q, articles, 1, ""), 1)
	assert.Len(t, Rank(q, articles, 10, ""), len(articles), "topK beyond candidates yields all")
}

func TestRank_SortedDescending(t *testing.T) {
	query := "refund for my damaged order"
	q := NewQuery(query, embedFor(t, query))

	results := Rank(q, shippingArticles(), 2, "")
	require.Len(t, results, 2)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestRank_CategoryFilter(t *testing.T) {
	query := "refund and invoice details"
	q := NewQuery(query, embedFor(t, query))

	t.Run("matching category restricts candidates", func(t *testing.T) {
		results := Rank(q, shippingArticles(), 5, "billing")
		require.Len(t, results, 1)
		assert.Equal(t, "a2", results[0].ArticleID)
	})

	t.Run("filter match is case-insensitive contains", func(t *testing.T) {
		results := Rank(q, shippingArticles(), 5, "BILL")
		require.Len(t, results, 1)
		assert.Equal(t, "a2", results[0].ArticleID)
	})

	t.Run("filter eliminating all candidates falls back to full set", func(t *testing.T) {
		results := Rank(q, shippingArticles(), 5, "Account")
		assert.Len(t, results, 2, "fallback guarantees a non-empty result")
	})

	t.Run("filter-empty pass keeps primary weighting and boosts", func(t *testing.T) {
		shippingQuery := "my package is delayed and has not arrived"
		sq := NewQuery(shippingQuery, embedFor(t, shippingQuery))

		unfiltered := Rank(sq, shippingArticles(), 2, "")
		filterEmpty := Rank(sq, shippingArticles(), 2, "Account")

		require.Len(t, filterEmpty, 2)
		assert.Equal(t, unfiltered, filterEmpty, "dropping the filter must not change the scoring")

		// The shipping boost still separates the articles; the order is not a
		// stable-sort accident between tied scores.
		assert.Equal(t, "a1", filterEmpty[0].ArticleID)
		assert.Greater(t, filterEmpty[0].Score, filterEmpty[1].Score)
	})
}

func TestRank_TieBreakPreservesArticleOrder(t *testing.T) {
	// Identical articles score identically; stable sort keeps input order.
	articles := []*models.Article{
		{ID: "first", Title: "Password reset", Content: "reset your password"},
		{ID: "second", Title: "Password reset", Content: "reset your password"},
	}

	q := NewQuery("password reset", nil)

	results := Rank(q, articles, 2, "")
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, "first", results[0].ArticleID)
	assert.Equal(t, "second", results[1].ArticleID)
}

func TestScore_RoundedToThreeDecimals(t *testing.T) {
	q := NewQuery("delivery tracking delay dispatch", nil)
	art := &models.Article{ID: "a1", Title: "Tracking", Content: "delivery tracking and dispatch delay info"}

	score := Score(q, art)
	assert.InDelta(t, score, models.Round3(score), 1e-12)
	assert.Positive(t, score)
}

func TestScore_NoEmbeddingDisablesSimilarityTerm(t *testing.T) {
	q := NewQuery("unrelated words entirely", embedFor(t, "unrelated words entirely"))
	art := &models.Article{ID: "a1", Title: "Something else", Content: "totally different text"}

	// No article embedding: only lexical (0 here) and boosts (none) contribute.
	assert.Zero(t, Score(q, art))
}
