package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func TestMockProvider_Deterministic(t *testing.T) {
	p := NewMockProvider(64)
	ctx := context.Background()

	first, err := p.Embed(ctx, "Mom enjoyed her lunch today")
	require.NoError(t, err)
	second, err := p.Embed(ctx, "Mom enjoyed her lunch today")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestMockProvider_UnitNorm(t *testing.T) {
	p := NewMockProvider(64)

	for _, text := range []string{"hello world", "", "a b c d e f g"} {
		vec, err := p.Embed(context.Background(), text)
		require.NoError(t, err)

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5, "text %q", text)
	}
}

func TestMockProvider_OverlapBeatsDisjoint(t *testing.T) {
	p := NewMockProvider(256)
	ctx := context.Background()

	query, err := p.Embed(ctx, "enjoyed lunch")
	require.NoError(t, err)
	related, err := p.Embed(ctx, "Mom enjoyed her lunch today")
	require.NoError(t, err)
	unrelated, err := p.Embed(ctx, "the weather was rainy yesterday")
	require.NoError(t, err)

	assert.Greater(t, cosine(query, related), cosine(query, unrelated))
}

func TestMockProvider_DefaultDimension(t *testing.T) {
	assert.Equal(t, 384, NewMockProvider(0).Dimension())
	assert.Equal(t, 384, NewMockProvider(-5).Dimension())
	assert.Equal(t, 64, NewMockProvider(64).Dimension())
}

func TestMockProvider_EmbedBatch(t *testing.T) {
	p := NewMockProvider(64)
	ctx := context.Background()

	vectors, err := p.EmbedBatch(ctx, []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	single, err := p.Embed(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, single, vectors[0])
}

func TestOpenAIProvider_ModelDimensions(t *testing.T) {
	assert.Equal(t, 1536, NewOpenAIProvider("sk-test", "text-embedding-3-small").Dimension())
	assert.Equal(t, 3072, NewOpenAIProvider("sk-test", "text-embedding-3-large").Dimension())
}
