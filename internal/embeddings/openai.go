package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	vectors "github.com/supportdesk/hub/pkg/embeddings"
)

var (
	// ErrNoEmbeddingInResponse is returned when the API response contains no embedding data.
	ErrNoEmbeddingInResponse = errors.New("openai: no embedding in response")
	// ErrDimensionMismatch is returned when the response embedding length does not match the configured dimension.
	ErrDimensionMismatch = errors.New("openai: embedding dimension mismatch")
)

// OpenAIClient calls the OpenAI embeddings API via the official SDK. Responses are
// requested at the shared fixed dimension and L2-normalized before use.
type OpenAIClient struct {
	sdk        openaisdk.Client
	model      string
	dimensions int
}

// OpenAIOption configures the OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithModel sets the embedding model (default text-embedding-3-small).
func WithModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

// NewOpenAIClient creates an OpenAI embeddings client using the official SDK.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	client := &OpenAIClient{
		sdk:        openaisdk.NewClient(option.WithAPIKey(apiKey)),
		model:      string(openaisdk.EmbeddingModelTextEmbedding3Small),
		dimensions: Dimension,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// CreateEmbedding requests an embedding for the input text. Empty or
// whitespace-only input yields (nil, nil) per the Client contract.
func (c *OpenAIClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	resp, err := c.sdk.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
		Model:      openaisdk.EmbeddingModel(c.model),
		Dimensions: param.NewOpt(int64(c.dimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, ErrNoEmbeddingInResponse
	}

	emb := resp.Data[0].Embedding
	if len(emb) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(emb), c.dimensions)
	}

	out := make([]float32, len(emb))
	for i := range emb {
		out[i] = float32(emb[i])
	}

	// The API already returns near-unit vectors, but normalizing keeps the stored
	// invariant exact regardless of provider.
	vectors.NormalizeL2(out)

	return out, nil
}

var _ Client = (*OpenAIClient)(nil)
