package align

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/sapphire/ai"
	"github.com/poiesic/sapphire/chunk"
	"github.com/poiesic/sapphire/core"
	"github.com/poiesic/sapphire/lattice"
	"github.com/poiesic/sapphire/phrase"
	"github.com/poiesic/sapphire/similarity"
	"github.com/poiesic/sapphire/wordalign"
)

// Aligner aligns tokenized sentence pairs.
type Aligner struct {
	vectorizer ai.Vectorizer
	chunker    ai.Chunker
	config     Config
	logger     *slog.Logger
}

// Option configures an Aligner.
type Option func(*Aligner) error

// WithConfig replaces the whole configuration. Options applied after it
// still override individual fields.
func WithConfig(config *Config) Option {
	return func(a *Aligner) error {
		if config == nil {
			return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
		}
		a.config = *config
		return nil
	}
}

// WithLambda sets the word alignment threshold.
func WithLambda(lambda float64) Option {
	return func(a *Aligner) error {
		a.config.Lambda = lambda
		return nil
	}
}

// WithDelta sets the phrase alignment threshold.
func WithDelta(delta float64) Option {
	return func(a *Aligner) error {
		a.config.Delta = delta
		return nil
	}
}

// WithAlpha sets the phrase length bias.
func WithAlpha(alpha float64) Option {
	return func(a *Aligner) error {
		a.config.Alpha = alpha
		return nil
	}
}

// WithStrategy sets the word alignment strategy.
func WithStrategy(strategy wordalign.Strategy) Option {
	return func(a *Aligner) error {
		a.config.Strategy = strategy
		return nil
	}
}

// WithBranchLimit caps the lattice search branching factor. Zero disables it.
func WithBranchLimit(limit int) Option {
	return func(a *Aligner) error {
		a.config.BranchLimit = limit
		return nil
	}
}

// WithTopN sets the number of alignments returned per call.
func WithTopN(n int) Option {
	return func(a *Aligner) error {
		a.config.TopN = n
		return nil
	}
}

// WithReturnScore includes alignment scores in rendered results.
func WithReturnScore(returnScore bool) Option {
	return func(a *Aligner) error {
		a.config.ReturnScore = returnScore
		return nil
	}
}

// WithChunker drops phrase pairs that cut through chunks found by chunker.
// A nil chunker disables filtering.
func WithChunker(chunker ai.Chunker) Option {
	return func(a *Aligner) error {
		a.chunker = chunker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aligner) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAligner creates an Aligner. The configuration starts from
// DefaultConfig and is validated after all options are applied.
func NewAligner(vectorizer ai.Vectorizer, opts ...Option) (*Aligner, error) {
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}

	a := &Aligner{
		vectorizer: vectorizer,
		config:     *DefaultConfig(),
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if err := a.config.Validate(); err != nil {
		return nil, err
	}
	a.logger = a.logger.With("component", "aligner")

	return a, nil
}

// Config returns a copy of the bound configuration.
func (a *Aligner) Config() Config {
	return a.config
}

// Align aligns src with trg.
func (a *Aligner) Align(ctx context.Context, src, trg []string) (*core.Result, error) {
	return a.AlignWithMonitor(ctx, src, trg, nil)
}

// AlignWithMonitor aligns src with trg, reporting each stage to monitor.
// Only context errors are returned; any other failure yields an empty result.
func (a *Aligner) AlignWithMonitor(ctx context.Context, src, trg []string, monitor Monitor) (*core.Result, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(src, trg)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Vectorize both sentences
	srcVectors, err := a.vectorize(ctx, src)
	if err == nil {
		var trgVectors [][]float32
		trgVectors, err = a.vectorize(ctx, trg)
		if err == nil {
			return a.alignVectors(ctx, src, trg, srcVectors, trgVectors, monitor)
		}
	}
	return a.fail(ctx, StageVectorize, err, monitor)
}

func (a *Aligner) alignVectors(ctx context.Context, src, trg []string, srcVectors, trgVectors [][]float32, monitor Monitor) (*core.Result, error) {
	// Empty sentences stand in as a single zero vector
	srcVectors, trgVectors = placeholder(srcVectors, trgVectors), placeholder(trgVectors, srcVectors)

	// 2. Similarity matrix
	sim, err := similarity.Build(srcVectors, trgVectors)
	if err != nil {
		return a.fail(ctx, StageSimilarity, err, monitor)
	}

	// 3. Word alignment, without points on a placeholder
	points := make([]core.Point, 0)
	for _, p := range wordalign.Align(sim, a.config.Lambda, a.config.Strategy) {
		if p.Source <= len(src) && p.Target <= len(trg) {
			points = append(points, p)
		}
	}
	monitor.AfterWordAlignment(points)

	// 4. Phrase extraction
	pairs := phrase.Extract(points, srcVectors, trgVectors, a.config.Delta, a.config.Alpha)
	monitor.AfterPhraseExtraction(pairs)

	// 5. Chunk constraints
	if a.chunker != nil && len(pairs) > 0 {
		srcChunks, err := a.chunker.Chunk(ctx, src)
		if err != nil {
			return a.fail(ctx, StageChunk, err, monitor)
		}
		trgChunks, err := a.chunker.Chunk(ctx, trg)
		if err != nil {
			return a.fail(ctx, StageChunk, err, monitor)
		}
		kept := chunk.Filter(pairs, srcChunks, trgChunks)
		monitor.AfterChunkFilter(kept, len(pairs)-len(kept))
		pairs = kept
	}

	// 6. Lattice search
	result := &core.Result{
		WordAlignment: points,
		Alignments: lattice.Search(pairs, len(src), len(trg), lattice.Options{
			BranchLimit: a.config.BranchLimit,
			TopN:        a.config.TopN,
		}),
	}
	a.logger.Debug("aligned sentence pair",
		"srcTokens", len(src),
		"trgTokens", len(trg),
		"points", len(points),
		"phrases", len(pairs),
		"score", result.Best().Score)
	monitor.Finish(result)

	return result, nil
}

func (a *Aligner) vectorize(ctx context.Context, tokens []string) ([][]float32, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	vectors, err := a.vectorizer.Vectorize(ctx, tokens)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(tokens) {
		return nil, fmt.Errorf("%w: got %d vectors for %d tokens", ai.ErrVectorCount, len(vectors), len(tokens))
	}
	return vectors, nil
}

// fail turns a stage failure into an empty result. Context errors are
// returned as they are.
func (a *Aligner) fail(ctx context.Context, stage string, err error, monitor Monitor) (*core.Result, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	a.logger.Warn("alignment failed, returning empty result", "stage", stage, "err", err)
	monitor.Failed(stage, err)
	result := core.EmptyResult()
	monitor.Finish(result)
	return result, nil
}

// placeholder returns vectors, or a single zero vector shaped like other
// when vectors is empty.
func placeholder(vectors, other [][]float32) [][]float32 {
	if len(vectors) > 0 {
		return vectors
	}
	dim := 1
	if len(other) > 0 && len(other[0]) > 0 {
		dim = len(other[0])
	}
	return [][]float32{make([]float32, dim)}
}
