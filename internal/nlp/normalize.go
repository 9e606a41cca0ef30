// Package nlp provides text normalization and tokenization for scoring.
package nlp

import "strings"

// Normalize lowercases text, replaces every character that is not an ASCII letter,
// digit, or whitespace with a space, collapses whitespace runs to a single space,
// and trims. It is pure and total: garbage input yields an empty string, and
// Normalize(Normalize(t)) == Normalize(t).
func Normalize(text string) string {
	var b strings.Builder

	b.Grow(len(text))

	lastSpace := true // leading whitespace is dropped

	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)

			lastSpace = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))

			lastSpace = false
		default:
			// Whitespace and punctuation both separate terms.
			if !lastSpace {
				b.WriteByte(' ')

				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Tokenize splits normalized text into terms. Input is expected to already be
// normalized; the empty string yields no terms.
func Tokenize(normalized string) []string {
	if normalized == "" {
		return nil
	}

	return strings.Split(normalized, " ")
}

// TermSet returns the set of distinct terms in normalized text.
func TermSet(normalized string) map[string]struct{} {
	terms := Tokenize(normalized)
	set := make(map[string]struct{}, len(terms))

	for _, t := range terms {
		set[t] = struct{}{}
	}

	return set
}
