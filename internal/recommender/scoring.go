// Package recommender implements the relevance scoring engine and top-k ranker
// over the knowledge base. Scoring combines embedding similarity, lexical
// overlap, and intent boosts; ranking is a linear scan over a bounded article
// set, not an approximate nearest-neighbor index.
package recommender

import (
	"github.com/supportdesk/hub/internal/intent"
	"github.com/supportdesk/hub/internal/models"
	"github.com/supportdesk/hub/internal/nlp"
	vectors "github.com/supportdesk/hub/pkg/embeddings"
)

// Weighting deliberately favors lexical overlap over the weak, provider-dependent
// embedding signal; intent boosts act as a domain override that can push a
// lexically weak but intent-matching article above a lexically strong but
// intent-irrelevant one. The fallback pass drops boosts and leans harder on
// lexical overlap.
const (
	embeddingWeight = 0.4
	lexicalWeight   = 0.5

	fallbackEmbeddingWeight = 0.3
	fallbackLexicalWeight   = 0.7

	// lexicalEpsilon keeps the overlap denominator non-zero for empty queries.
	lexicalEpsilon = 1e-6
)

// Query is a preprocessed ranking query: normalized text, its distinct terms,
// the query embedding (nil when unavailable), and the detected intents.
type Query struct {
	Normalized string
	Terms      map[string]struct{}
	Embedding  []float32
	Intents    []intent.Intent
}

// NewQuery normalizes raw query text, tokenizes it, and detects intents.
// The embedding may be nil; the similarity term is then disabled.
func NewQuery(raw string, embedding []float32) Query {
	normalized := nlp.Normalize(raw)

	return Query{
		Normalized: normalized,
		Terms:      nlp.TermSet(normalized),
		Embedding:  embedding,
		Intents:    intent.Detect(normalized),
	}
}

// lexicalOverlap is a precision-oriented overlap measure: the share of distinct
// query terms found in the content. The denominator is query length only, so
// longer articles are not penalized.
func lexicalOverlap(queryTerms, contentTerms map[string]struct{}) float64 {
	if len(queryTerms) == 0 {
		return 0
	}

	matched := 0

	for term := range queryTerms {
		if _, ok := contentTerms[term]; ok {
			matched++
		}
	}

	return float64(matched) / (float64(len(queryTerms)) + lexicalEpsilon)
}

// articleText is the normalized searchable text of an article: title and content.
func articleText(a *models.Article) string {
	return nlp.Normalize(a.Title + " " + a.Content)
}

// Score computes the relevance of an article for a query: weighted embedding
// similarity and lexical overlap plus additive intent boosts, rounded to 3
// decimals. An article without an embedding contributes 0 to the similarity term.
func Score(q Query, article *models.Article) float64 {
	content := articleText(article)

	embScore := vectors.Cosine(q.Embedding, article.Embedding)
	textScore := lexicalOverlap(q.Terms, nlp.TermSet(content))
	boost := intent.Boost(q.Intents, content)

	return models.Round3(embeddingWeight*embScore + lexicalWeight*textScore + boost)
}

// fallbackScore is the simpler weighting used when the primary pass yields no
// candidates: no intent boosts, heavier lexical weight.
func fallbackScore(q Query, article *models.Article) float64 {
	content := articleText(article)

	embScore := vectors.Cosine(q.Embedding, article.Embedding)
	textScore := lexicalOverlap(q.Terms, nlp.TermSet(content))

	return models.Round3(fallbackEmbeddingWeight*embScore + fallbackLexicalWeight*textScore)
}
