// Package openai implements the embeddings.Embedder contract against any
// OpenAI-compatible /v1/embeddings endpoint (OpenAI itself, or a local
// server such as Ollama's compatibility API).
package openai

import (
	"context"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/Killi-Poyi/TheCredX/pkg/embeddings"
)

// DefaultEmbeddingModel is used when no model is configured.
const DefaultEmbeddingModel = string(goopenai.SmallEmbedding3)

// EmbedderConfig holds configuration for the OpenAI embedder.
type EmbedderConfig struct {
	// BaseURL overrides the API URL, e.g. "http://localhost:11434/v1".
	BaseURL string

	// APIKey authenticates requests. Local servers accept any value.
	APIKey string

	// Model is the embedding model. Defaults to DefaultEmbeddingModel.
	Model string

	// Dimensions asks the API to shorten vectors. 0 keeps the model default.
	Dimensions int
}

// Embedder wraps the go-openai client's embedding call.
type Embedder struct {
	client     *goopenai.Client
	model      string
	dimensions int
}

// NewEmbedder creates a new embedder for an OpenAI-compatible API.
func NewEmbedder(cfg EmbedderConfig) (*Embedder, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "promoworker"
	}

	clientConfig := goopenai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}

	return &Embedder{
		client:     goopenai.NewClientWithConfig(clientConfig),
		model:      model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed converts text into a vector embedding.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := goopenai.EmbeddingRequest{
		Model:      goopenai.EmbeddingModel(e.model),
		Input:      []string{text},
		Dimensions: e.dimensions,
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding request failed: %v", embeddings.ErrEmbedding, err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned from model", embeddings.ErrEmbedding)
	}

	return resp.Data[0].Embedding, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
