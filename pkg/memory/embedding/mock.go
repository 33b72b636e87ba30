package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// MockProvider is a deterministic, offline Provider for tests and local
// development. Each token is hashed into a fixed bucket, so identical
// texts always map to identical unit vectors and texts sharing words
// overlap. It has no semantic knowledge.
type MockProvider struct {
	dimension int
}

// NewMockProvider creates a mock provider with the given dimension.
func NewMockProvider(dimension int) *MockProvider {
	if dimension <= 0 {
		dimension = 384
	}
	return &MockProvider{dimension: dimension}
}

// Dimension returns the configured vector length.
func (p *MockProvider) Dimension() int {
	return p.dimension
}

// Embed returns a deterministic unit vector for the text.
func (p *MockProvider) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, p.dimension)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%p.dimension]++
	}

	// L2 normalize so cosine distances behave like the real thing
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	} else {
		vec[0] = 1
	}

	return vec, nil
}

// EmbedBatch embeds each text independently.
func (p *MockProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}
