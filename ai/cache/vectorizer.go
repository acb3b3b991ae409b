// Package cache provides an ai.Vectorizer decorator that remembers token
// vectors in a storage.VectorCache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/sapphire/ai"
	"github.com/poiesic/sapphire/core"
	"github.com/poiesic/sapphire/storage"
)

// Vectorizer serves tokens from a cache and vectorizes only the misses.
// Cache failures are logged and never fail a call.
type Vectorizer struct {
	next      ai.Vectorizer
	cache     storage.VectorCache
	namespace string
	logger    *slog.Logger
}

var _ ai.Vectorizer = (*Vectorizer)(nil)

// Option configures a Vectorizer.
type Option func(*Vectorizer) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Vectorizer) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		v.logger = logger
		return nil
	}
}

// New wraps next with cache. namespace separates the vectors of different
// models sharing one cache; it is usually the embedding model name.
func New(next ai.Vectorizer, cache storage.VectorCache, namespace string, opts ...Option) (*Vectorizer, error) {
	if next == nil {
		return nil, errors.New("vectorizer cannot be nil")
	}
	if cache == nil {
		return nil, errors.New("cache cannot be nil")
	}
	if namespace == "" {
		return nil, errors.New("namespace cannot be empty")
	}
	v := &Vectorizer{
		next:      next,
		cache:     cache,
		namespace: namespace,
		logger:    slog.Default().With("component", "vector-cache"),
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Vectorize implements ai.Vectorizer. Repeated tokens are looked up and
// vectorized once.
func (v *Vectorizer) Vectorize(ctx context.Context, tokens []string) ([][]float32, error) {
	if len(tokens) == 0 {
		return [][]float32{}, nil
	}

	ids := make([]core.ID, len(tokens))
	for i, token := range tokens {
		ids[i] = core.TokenID(v.namespace, token)
	}

	cached, err := v.cache.GetVectors(ctx, ids...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		v.logger.Warn("vector cache read failed", "err", err)
		cached = map[core.ID][]float32{}
	}

	var missing []string
	var missingIDs []core.ID
	seen := make(map[core.ID]bool)
	for i, id := range ids {
		if _, ok := cached[id]; ok || seen[id] {
			continue
		}
		seen[id] = true
		missing = append(missing, tokens[i])
		missingIDs = append(missingIDs, id)
	}
	v.logger.Debug("vector cache lookup", "tokens", len(tokens), "misses", len(missing))

	if len(missing) > 0 {
		fresh, err := v.next.Vectorize(ctx, missing)
		if err != nil {
			return nil, err
		}
		if len(fresh) != len(missing) {
			return nil, fmt.Errorf("%w: got %d vectors for %d tokens", ai.ErrVectorCount, len(fresh), len(missing))
		}
		update := make(map[core.ID][]float32, len(fresh))
		for i, id := range missingIDs {
			update[id] = fresh[i]
			cached[id] = fresh[i]
		}
		if err := v.cache.PutVectors(ctx, update); err != nil {
			v.logger.Warn("vector cache write failed", "err", err)
		}
	}

	vectors := make([][]float32, len(tokens))
	for i, id := range ids {
		vectors[i] = cached[id]
	}
	return vectors, nil
}
