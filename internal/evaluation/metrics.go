// Package evaluation computes recommendation quality metrics from feedback logs
// and labeled datasets. All operations are read-only over already-collected data.
package evaluation

import "github.com/supportdesk/hub/internal/models"

// FromFeedback derives precision/recall/F1 from the full feedback log. A correct
// entry counts as a true positive and an incorrect one as a false positive;
// recall is measured against labeled-feedback volume rather than a ground-truth
// universe. An empty log yields all-zero metrics.
func FromFeedback(entries []models.FeedbackEntry) models.FeedbackMetrics {
	m := models.FeedbackMetrics{CountFeedback: len(entries)}

	for _, e := range entries {
		if e.Correct {
			m.TruePositives++
		} else {
			m.FalsePositives++
		}
	}

	m.Precision, m.Recall, m.F1 = prf(m.TruePositives, m.FalsePositives, m.CountFeedback-m.TruePositives)

	return m
}

// prf computes rounded precision, recall, and F1 from counts. Precision is 0 when
// there are no positive predictions; F1 is 0 when both precision and recall are.
func prf(tp, fp, fn int) (precision, recall, f1 float64) {
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}

	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}

	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return models.Round3(precision), models.Round3(recall), models.Round3(f1)
}
