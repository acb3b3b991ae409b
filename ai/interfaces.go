package ai

import (
	"context"

	"github.com/poiesic/sapphire/core"
)

// Vectorizer maps tokens to fixed-dimension vectors.
// Implementations must be thread-safe for concurrent use.
type Vectorizer interface {
	// Vectorize returns one vector per token, in token order. All vectors
	// share the same dimension. An empty token slice yields an empty result.
	// Returns an error if any token cannot be vectorized.
	Vectorize(ctx context.Context, tokens []string) ([][]float32, error)
}

// Chunker groups the tokens of a sentence into syntactic chunks.
// Implementations must be thread-safe for concurrent use.
type Chunker interface {
	// Chunk returns the 1-based, inclusive chunks of tokens. Tokens not
	// covered by any chunk are unconstrained.
	Chunk(ctx context.Context, tokens []string) ([]core.Chunk, error)
}

// Provider aggregates the external services an aligner depends on and
// manages their lifecycle.
type Provider interface {
	// Vectorizer returns the token vectorization service.
	Vectorizer() Vectorizer

	// Chunker returns the chunking service, or nil when none is configured.
	Chunker() Chunker

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
