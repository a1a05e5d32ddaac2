package embeddings

import (
	"context"
	"fmt"

	"github.com/Killi-Poyi/TheCredX/pkg/vector"
)

// Normalizer wraps a provider so that every vector it hands out has exactly
// Dimensions() components and unit length.
type Normalizer struct {
	inner Embedder
	dims  int
}

var _ Embedder = (*Normalizer)(nil)

// Normalized wraps e. A dims of 0 accepts whatever length the provider
// returns.
func Normalized(e Embedder, dims int) *Normalizer {
	return &Normalizer{inner: e, dims: dims}
}

// Dimensions returns the configured vector length, or 0 when unchecked.
func (n *Normalizer) Dimensions() int {
	return n.dims
}

// Embed implements Embedder. Every text, blank included, goes through the
// provider. A provider that answers with nothing or with a zero vector gets
// the first basis vector instead, so stored embeddings always have unit
// length.
func (n *Normalizer) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := n.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(v) == 0 {
		if n.dims == 0 {
			return nil, ErrEmptyEmbedding
		}
		return vector.Basis(n.dims), nil
	}
	if n.dims > 0 && len(v) != n.dims {
		return nil, fmt.Errorf("%w: got %d components, want %d", ErrDimensionMismatch, len(v), n.dims)
	}
	if vector.Norm(v) == 0 {
		return vector.Basis(len(v)), nil
	}

	return vector.Normalize(v), nil
}

// Close implements Embedder.
func (n *Normalizer) Close() error {
	return n.inner.Close()
}
