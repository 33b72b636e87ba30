// Package embedding defines the capability interface for turning text
// into fixed-length float vectors, plus concrete providers.
package embedding

import "context"

// Provider generates vector embeddings from text. Dimension is fixed per
// provider and must match the vector index it feeds; a mismatch is a
// configuration error caught at startup, not at runtime.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}
