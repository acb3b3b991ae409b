// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sapphire

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/poiesic/sapphire/ai"
	"github.com/poiesic/sapphire/ai/cache"
	"github.com/poiesic/sapphire/ai/openai"
	"github.com/poiesic/sapphire/ai/static"
	"github.com/poiesic/sapphire/align"
	"github.com/poiesic/sapphire/batch"
	"github.com/poiesic/sapphire/storage"
	"github.com/poiesic/sapphire/storage/badger"
	"github.com/poiesic/sapphire/storage/redis"
)

// Engine wires a vectorizer, an optional chunker and optional storage into
// aligners and batch runners.
type Engine struct {
	backend     *badger.Backend
	vectorCache storage.VectorCache
	checkpoints storage.CheckpointRepository
	provider    ai.Provider
	table       *static.Table
	vectorizer  ai.Vectorizer
	chunker     ai.Chunker
	baseLogger  *slog.Logger
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig      *ai.Config
	provider      ai.Provider
	vectorTable   string
	storePath     string
	memoryStore   bool
	redisAddr     string
	redisPassword string
	redisDB       int
	redisTTL      time.Duration
	retryAttempts int
	retryDelay    time.Duration
	logger        *slog.Logger
}

// WithAIConfig sets the configuration of the OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The engine takes ownership and closes it.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithVectorTable vectorizes tokens from a word vector file instead of the
// provider.
func WithVectorTable(path string) EngineOption {
	return func(o *engineOptions) {
		o.vectorTable = path
	}
}

// WithStore keeps cached vectors and batch checkpoints in a Badger database
// at path.
func WithStore(path string) EngineOption {
	return func(o *engineOptions) {
		o.storePath = path
		o.memoryStore = false
	}
}

// WithMemoryStore keeps cached vectors and batch checkpoints in memory.
func WithMemoryStore() EngineOption {
	return func(o *engineOptions) {
		o.storePath = ""
		o.memoryStore = true
	}
}

// WithRedisCache caches vectors in Redis instead of the store.
// ttl of zero keeps them forever.
func WithRedisCache(addr, password string, db int, ttl time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.redisAddr = addr
		o.redisPassword = password
		o.redisDB = db
		o.redisTTL = ttl
	}
}

// WithRetry retries failed provider calls up to attempts times.
func WithRetry(attempts int, baseDelay time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.retryAttempts = attempts
		o.retryDelay = baseDelay
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine builds an Engine. Without a vector table the provider's
// vectorizer is used, behind the vector cache when a store or Redis is
// configured.
func NewEngine(ctx context.Context, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		aiConfig:      ai.DefaultConfig(), // Default if not provided
		retryAttempts: 1,
		retryDelay:    time.Second,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.aiConfig == nil {
		options.aiConfig = ai.DefaultConfig()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	e := &Engine{
		baseLogger: options.logger,
		logger:     options.logger.With("component", "engine"),
	}
	if err := e.open(ctx, options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) open(ctx context.Context, options *engineOptions) error {
	// Provider, needed for remote vectors or chunking
	e.provider = options.provider
	if e.provider == nil && (options.vectorTable == "" || options.aiConfig.ChunkingEnabled()) {
		provider, err := openai.NewProvider(options.aiConfig)
		if err != nil {
			return err
		}
		e.provider = provider
	}
	if e.provider != nil {
		e.chunker = e.provider.Chunker()
	}

	// Storage
	if options.storePath != "" || options.memoryStore {
		backend, err := badger.OpenBackend(options.storePath, options.memoryStore)
		if err != nil {
			return err
		}
		e.backend = backend
		e.checkpoints = badger.NewCheckpointRepository(backend)
		e.vectorCache = badger.NewVectorRepository(backend)
	}
	if options.redisAddr != "" {
		var redisOpts []redis.Option
		if options.redisTTL > 0 {
			redisOpts = append(redisOpts, redis.WithTTL(options.redisTTL))
		}
		vectorCache, err := redis.Dial(ctx, options.redisAddr, options.redisPassword, options.redisDB, redisOpts...)
		if err != nil {
			return err
		}
		if e.vectorCache != nil {
			e.vectorCache.Close()
		}
		e.vectorCache = vectorCache
	}

	// Local tables need neither retries nor caching
	if options.vectorTable != "" {
		table, err := static.Open(options.vectorTable, static.WithLogger(e.baseLogger.With("component", "vector-table")))
		if err != nil {
			return err
		}
		e.table = table
		e.vectorizer = table
		e.logger.Info("using vector table", "path", filepath.Base(options.vectorTable), "tokens", table.Len(), "dim", table.Dim())
		return nil
	}

	e.vectorizer = e.provider.Vectorizer()
	if options.retryAttempts > 1 {
		retrying, err := batch.NewRetryVectorizer(e.vectorizer, options.retryAttempts, options.retryDelay)
		if err != nil {
			return err
		}
		e.vectorizer = retrying
	}
	if e.vectorCache != nil {
		cached, err := cache.New(e.vectorizer, e.vectorCache, options.aiConfig.EmbeddingModel,
			cache.WithLogger(e.baseLogger.With("component", "vector-cache")))
		if err != nil {
			return err
		}
		e.vectorizer = cached
	}
	return nil
}

// Close releases all resources. It is safe to call on a partially built
// engine.
func (e *Engine) Close() error {
	var errs []error

	// Close AI provider first
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if e.table != nil {
		if err := e.table.Close(); err != nil {
			e.logger.Error("error closing vector table", "err", err)
			errs = append(errs, err)
		}
	}
	if e.vectorCache != nil {
		if err := e.vectorCache.Close(); err != nil {
			e.logger.Error("error closing vector cache", "err", err)
			errs = append(errs, err)
		}
	}

	// Close backend
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Vectorizer returns the composed vectorizer.
func (e *Engine) Vectorizer() ai.Vectorizer {
	return e.vectorizer
}

// Chunker returns the chunker, or nil when chunking is disabled.
func (e *Engine) Chunker() ai.Chunker {
	return e.chunker
}

// CheckpointRepository returns the checkpoint store, or nil without a store.
func (e *Engine) CheckpointRepository() storage.CheckpointRepository {
	return e.checkpoints
}

// NewAligner creates an Aligner on the engine's vectorizer and chunker.
// opts are applied after the engine's own and may override them.
func (e *Engine) NewAligner(opts ...align.Option) (*align.Aligner, error) {
	base := []align.Option{align.WithChunker(e.chunker), align.WithLogger(e.baseLogger)}
	return align.NewAligner(e.vectorizer, append(base, opts...)...)
}

// NewRunner creates a batch Runner on aligner that checkpoints into the
// engine's store, if any.
func (e *Engine) NewRunner(aligner batch.Aligner, opts ...batch.Option) (*batch.Runner, error) {
	base := []batch.Option{batch.WithCheckpoints(e.checkpoints), batch.WithLogger(e.baseLogger)}
	return batch.NewRunner(aligner, append(base, opts...)...)
}
