package service

import "context"

// EmbeddingClient generates embedding vectors for text.
// Implemented by provider-specific clients (local deterministic, OpenAI).
type EmbeddingClient interface {
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)
}
