package evaluation

import "github.com/supportdesk/hub/internal/models"

// RankFunc produces the ranker's predictions for a query. It is injected so the
// evaluator stays read-only and free of knowledge-base plumbing.
type RankFunc func(query string, topK int) []models.RankedArticle

// EvaluateDataset runs the ranker over a labeled dataset and accumulates hit
// metrics. A hit is the ground-truth id appearing in the top-k predictions.
//
// Accounting note: a miss counts as a false negative, and additionally as a
// false positive when predictions were non-empty. This conflates "wrong
// prediction" with "no prediction" and inflates the FP count; it is kept as-is
// for compatibility with historical metric values.
func EvaluateDataset(items []models.DatasetItem, topK int, rank RankFunc) models.DatasetMetrics {
	m := models.DatasetMetrics{
		Count:   len(items),
		Details: make([]models.DatasetItemResult, 0, len(items)),
	}

	for _, item := range items {
		ranked := rank(item.Description, topK)

		preds := make([]string, 0, len(ranked))
		for _, r := range ranked {
			preds = append(preds, r.ArticleID)
		}

		hit := false

		for _, id := range preds {
			if id == item.GroundTruthArticleID {
				hit = true

				break
			}
		}

		if hit {
			m.TruePositives++
		} else {
			m.FalseNegatives++

			if len(preds) > 0 {
				m.FalsePositives++
			}
		}

		m.Details = append(m.Details, models.DatasetItemResult{
			Description: item.Description,
			GroundTruth: item.GroundTruthArticleID,
			Predictions: preds,
			Hit:         hit,
		})
	}

	m.Precision, m.Recall, m.F1 = prf(m.TruePositives, m.FalsePositives, m.FalseNegatives)

	return m
}
