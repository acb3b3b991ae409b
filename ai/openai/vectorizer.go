package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/sapphire/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Vectorizer implements ai.Vectorizer by embedding each token through an
// OpenAI-compatible embeddings API.
type Vectorizer struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newVectorizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newVectorizer(config *ai.Config) (*Vectorizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(config.BatchSize),
	)
	if err != nil {
		return nil, err
	}

	return &Vectorizer{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-vectorizer"),
	}, nil
}

// NewVectorizer creates a new vectorizer using the provided configuration.
//
// Returns ai.Vectorizer interface to enforce abstraction.
func NewVectorizer(config *ai.Config) (ai.Vectorizer, error) {
	return newVectorizer(config)
}

// Vectorize embeds every token independently and returns the vectors in token order.
func (v *Vectorizer) Vectorize(ctx context.Context, tokens []string) ([][]float32, error) {
	if len(tokens) == 0 {
		return [][]float32{}, nil
	}
	v.logger.Debug("vectorizing tokens", "count", len(tokens))

	vectors, err := v.embedder.EmbedDocuments(ctx, tokens)
	if err != nil {
		v.logger.Error("failed to generate embeddings", "count", len(tokens), "err", err)
		return nil, err
	}
	if len(vectors) != len(tokens) {
		return nil, fmt.Errorf("%w: got %d vectors for %d tokens", ai.ErrVectorCount, len(vectors), len(tokens))
	}
	return vectors, nil
}
