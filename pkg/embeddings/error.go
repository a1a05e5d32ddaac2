package embeddings

import "errors"

var (
	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimensionMismatch is returned when a provider returns a vector of the
	// wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyEmbedding is returned when a provider returns no components and
	// no dimension is configured to fall back on.
	ErrEmptyEmbedding = errors.New("embedding is empty")
)
