package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/hub/internal/models"
)

func TestFromFeedback(t *testing.T) {
	t.Run("mixed feedback", func(t *testing.T) {
		entries := []models.FeedbackEntry{
			{ArticleID: "a1", Correct: true},
			{ArticleID: "a1", Correct: false},
			{ArticleID: "a2", Correct: true},
		}

		m := FromFeedback(entries)

		assert.Equal(t, 3, m.CountFeedback)
		assert.Equal(t, 2, m.TruePositives)
		assert.Equal(t, 1, m.FalsePositives)
		assert.InDelta(t, 0.667, m.Precision, 1e-9)
		assert.InDelta(t, 0.667, m.Recall, 1e-9)
		assert.InDelta(t, 0.667, m.F1, 1e-9)
	})

	t.Run("empty log yields zero metrics", func(t *testing.T) {
		m := FromFeedback(nil)

		assert.Zero(t, m.CountFeedback)
		assert.Zero(t, m.Precision)
		assert.Zero(t, m.Recall)
		assert.Zero(t, m.F1)
	})

	t.Run("all incorrect", func(t *testing.T) {
		m := FromFeedback([]models.FeedbackEntry{
			{ArticleID: "a1", Correct: false},
			{ArticleID: "a2", Correct: false},
		})

		assert.Zero(t, m.Precision)
		assert.Zero(t, m.Recall)
		assert.Zero(t, m.F1)
	})
}

func TestEvaluateDataset(t *testing.T) {
	// Ranker stub keyed by query text.
	rank := func(predictions map[string][]string) RankFunc {
		return func(query string, topK int) []models.RankedArticle {
			ids := predictions[query]
			if topK < len(ids) {
				ids = ids[:topK]
			}

			out := make([]models.RankedArticle, 0, len(ids))
			for i, id := range ids {
				out = append(out, models.RankedArticle{ArticleID: id, Score: 1 - float64(i)*0.1})
			}

			return out
		}
	}

	t.Run("hits and misses", func(t *testing.T) {
		items := []models.DatasetItem{
			{Description: "q1", GroundTruthArticleID: "a1"},
			{Description: "q2", GroundTruthArticleID: "a2"},
			{Description: "q3", GroundTruthArticleID: "a3"},
		}

		m := EvaluateDataset(items, 1, rank(map[string][]string{
			"q1": {"a1"},      // hit
			"q2": {"a9"},      // miss with prediction: fn and fp
			"q3": {},          // miss without prediction: fn only
		}))

		assert.Equal(t, 3, m.Count)
		assert.Equal(t, 1, m.TruePositives)
		assert.Equal(t, 1, m.FalsePositives)
		assert.Equal(t, 2, m.FalseNegatives)
		assert.InDelta(t, 0.5, m.Precision, 1e-9)
		assert.InDelta(t, 0.333, m.Recall, 1e-9)

		require.Len(t, m.Details, 3)
		assert.True(t, m.Details[0].Hit)
		assert.False(t, m.Details[1].Hit)
		assert.Equal(t, []string{"a9"}, m.Details[1].Predictions)
	})

	t.Run("hit anywhere in top-k counts", func(t *testing.T) {
		items := []models.DatasetItem{{Description: "q", GroundTruthArticleID: "a2"}}

		m := EvaluateDataset(items, 3, rank(map[string][]string{
			"q": {"a1", "a2", "a3"},
		}))

		assert.Equal(t, 1, m.TruePositives)
		assert.Zero(t, m.FalseNegatives)
	})

	t.Run("empty dataset", func(t *testing.T) {
		m := EvaluateDataset(nil, 1, rank(nil))
		assert.Zero(t, m.Count)
		assert.Empty(t, m.Details)
	})
}
