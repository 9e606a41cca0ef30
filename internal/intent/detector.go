package intent

import "strings"

// Detect scans a normalized query and returns every intent whose trigger keywords
// appear as a substring. Intents are not mutually exclusive; the result preserves
// the fixed detection order. Pure and deterministic, no I/O.
func Detect(normalizedQuery string) []Intent {
	if normalizedQuery == "" {
		return nil
	}

	var detected []Intent

	for _, name := range detectionOrder {
		for _, kw := range taxonomy[name].triggers {
			if strings.Contains(normalizedQuery, kw) {
				detected = append(detected, name)

				break
			}
		}
	}

	return detected
}

// Boost sums the boost weights of every detected intent whose content-keyword set
// intersects the normalized article text. Boosts are additive and independent: an
// article matching several detected intents receives several boosts.
func Boost(detected []Intent, normalizedContent string) float64 {
	var boost float64

	for _, name := range detected {
		r, ok := taxonomy[name]
		if !ok {
			continue
		}

		for _, kw := range r.contentTerms {
			if strings.Contains(normalizedContent, kw) {
				boost += r.boost

				break
			}
		}
	}

	return boost
}
