package intent

import (
	"context"
	"strings"

	"github.com/supportdesk/hub/internal/models"
	"github.com/supportdesk/hub/internal/nlp"
)

// Classifier assigns a category and tags to free text. Implementations may be
// rule-based or call a remote model; callers substitute safe defaults (Other,
// no tags) when a call fails, so failure never aborts ticket or article creation.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Category, error)
	Tags(ctx context.Context, text string) ([]string, error)
}

// defaultTags are used when no taxonomy keyword matches the text.
var defaultTags = []string{"support", "help", "order"}

const maxTags = 3

// RuleClassifier classifies text with the shared keyword taxonomy. It is the
// default collaborator and the fallback when a remote classifier is unavailable.
type RuleClassifier struct{}

// NewRuleClassifier creates a rule-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify returns the category of the first intent whose triggers match the
// text, or Other when nothing matches. It never fails.
func (c *RuleClassifier) Classify(_ context.Context, text string) (models.Category, error) {
	detected := Detect(nlp.Normalize(text))
	if len(detected) == 0 {
		return models.CategoryOther, nil
	}

	return taxonomy[detected[0]].category, nil
}

// Tags returns up to three taxonomy trigger keywords found in the text, falling
// back to generic support tags when none match.
func (c *RuleClassifier) Tags(_ context.Context, text string) ([]string, error) {
	normalized := nlp.Normalize(text)
	if normalized == "" {
		return append([]string(nil), defaultTags...), nil
	}

	seen := make(map[string]struct{})

	var tags []string

	for _, name := range Detect(normalized) {
		for _, kw := range taxonomy[name].triggers {
			if len(tags) == maxTags {
				return tags, nil
			}

			if _, dup := seen[kw]; dup {
				continue
			}

			if strings.Contains(normalized, kw) {
				seen[kw] = struct{}{}
				tags = append(tags, kw)
			}
		}
	}

	if len(tags) == 0 {
		return append([]string(nil), defaultTags...), nil
	}

	return tags, nil
}

var _ Classifier = (*RuleClassifier)(nil)
