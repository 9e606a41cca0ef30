// Package embeddings provides embedding clients: a deterministic local provider
// and an OpenAI-backed provider behind the same interface.
package embeddings

import "context"

// Dimension is the fixed embedding dimension used across the knowledge base.
// Stored article embeddings and query embeddings must agree on it.
const Dimension = 256

// Client generates a fixed-dimension embedding vector for text.
//
// Contract: identical input yields an identical vector (stored article embeddings
// must remain comparable to freshly computed query embeddings across restarts),
// and non-empty results are L2-normalized. Empty or whitespace-only input yields
// a nil vector with no error; callers treat nil as "no embedding available".
type Client interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}
