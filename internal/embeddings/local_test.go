package embeddings

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalClient_Deterministic(t *testing.T) {
	client := NewLocalClient()

	a, err := client.CreateEmbedding(context.Background(), "my package is delayed")
	require.NoError(t, err)
	b, err := client.CreateEmbedding(context.Background(), "my package is delayed")
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical input must yield the identical vector")
	assert.Len(t, a, Dimension)
}

func TestLocalClient_DistinctInputsDiffer(t *testing.T) {
	client := NewLocalClient()

	a, err := client.CreateEmbedding(context.Background(), "refund request")
	require.NoError(t, err)
	b, err := client.CreateEmbedding(context.Background(), "shipping delay")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLocalClient_UnitNorm(t *testing.T) {
	client := NewLocalClient()

	vec, err := client.CreateEmbedding(context.Background(), "billing question about my invoice")
	require.NoError(t, err)

	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-6)
}

func TestLocalClient_EmptyInput(t *testing.T) {
	client := NewLocalClient()

	vec, err := client.CreateEmbedding(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, vec, "empty input means no embedding available")
}
