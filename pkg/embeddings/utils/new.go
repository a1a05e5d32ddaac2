// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Killi-Poyi/TheCredX/pkg/embeddings"
	"github.com/Killi-Poyi/TheCredX/pkg/embeddings/ollama"
	"github.com/Killi-Poyi/TheCredX/pkg/embeddings/openai"
)

// warmUpText is embedded once at construction to load the model and learn
// or verify its output dimension.
const warmUpText = "promoworker warm-up"

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string

	// Dimensions is the expected vector length. 0 adopts whatever the
	// warm-up call returns.
	Dimensions int

	// SkipWarmUp constructs the provider without contacting it.
	SkipWarmUp bool

	Logger *slog.Logger
}

// NewEmbedder builds the configured provider, wraps it in a Normalizer and
// warms it up. It is meant to be called once per process.
func NewEmbedder(ctx context.Context, o *NewEmbedderOpts) (*embeddings.Normalizer, error) {
	provider, err := newProvider(o)
	if err != nil {
		return nil, err
	}

	if o.SkipWarmUp {
		return embeddings.Normalized(provider, o.Dimensions), nil
	}

	v, err := provider.Embed(ctx, warmUpText)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("warming up %s embedder: %w", o.ProviderType, err), provider.Close())
	}

	dims := o.Dimensions
	if dims == 0 {
		dims = len(v)
	} else if len(v) != dims {
		return nil, errors.Join(
			fmt.Errorf("%w: %s model %q returned %d components, configured %d",
				embeddings.ErrDimensionMismatch, o.ProviderType, o.Model, len(v), dims),
			provider.Close(),
		)
	}

	if o.Logger != nil {
		o.Logger.Info("embedding model loaded",
			"provider", o.ProviderType,
			"model", o.Model,
			"dimensions", dims,
		)
	}

	return embeddings.Normalized(provider, dims), nil
}

func newProvider(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		return openai.NewEmbedder(openai.EmbedderConfig{
			BaseURL:    o.TargetURL,
			APIKey:     o.APIKey,
			Model:      o.Model,
			Dimensions: o.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
