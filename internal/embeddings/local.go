package embeddings

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	vectors "github.com/supportdesk/hub/pkg/embeddings"
)

// LocalClient is a deterministic stand-in for a real embedding model: it derives a
// unit vector from a hash of the input text. The vectors carry no similarity
// signal beyond self-equality, which is enough for exact-repeat queries and for
// keeping the scoring pipeline exercised without a remote provider. A production
// deployment substitutes the OpenAI client behind the same interface.
type LocalClient struct {
	dimensions int
}

// NewLocalClient creates a deterministic local embedding client with the shared
// fixed dimension.
func NewLocalClient() *LocalClient {
	return &LocalClient{dimensions: Dimension}
}

// CreateEmbedding returns the hash-seeded unit vector for text. Empty or
// whitespace-only input yields (nil, nil): no embedding available.
func (c *LocalClient) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	// PCG is seeded from the text hash, so the vector is stable across processes
	// and restarts for identical input.
	rng := rand.New(rand.NewPCG(seed, seed))

	vec := make([]float32, c.dimensions)
	for i := range vec {
		vec[i] = float32(rng.Float64())
	}

	vectors.NormalizeL2(vec)

	return vec, nil
}

var _ Client = (*LocalClient)(nil)
