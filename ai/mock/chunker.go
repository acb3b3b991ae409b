package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/sapphire/core"
)

// MockChunker is a test double for ai.Chunker.
type MockChunker struct {
	// ChunkFunc is called by Chunk if set.
	// If nil, Chunk returns no chunks.
	ChunkFunc func(ctx context.Context, tokens []string) ([]core.Chunk, error)

	callCount atomic.Int64
}

// NewMockChunker creates a mock chunker that leaves every token unconstrained.
func NewMockChunker() *MockChunker {
	return &MockChunker{}
}

// WithChunkFunc sets a custom Chunk implementation and returns the mock.
func (m *MockChunker) WithChunkFunc(fn func(ctx context.Context, tokens []string) ([]core.Chunk, error)) *MockChunker {
	m.ChunkFunc = fn
	return m
}

// Chunk returns the result of ChunkFunc, or no chunks.
func (m *MockChunker) Chunk(ctx context.Context, tokens []string) ([]core.Chunk, error) {
	m.callCount.Add(1)

	if m.ChunkFunc != nil {
		return m.ChunkFunc(ctx, tokens)
	}
	return []core.Chunk{}, nil
}

// CallCount returns the number of times Chunk was called.
func (m *MockChunker) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockChunker) Reset() {
	m.callCount.Store(0)
	m.ChunkFunc = nil
}
