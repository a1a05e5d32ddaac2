// Package embeddings defines the text embedding contract used by the
// promotion pipeline, and the normalizing wrapper every provider is served
// through.
package embeddings

import "context"

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
