package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sync/atomic"
)

// DefaultDimension is the vector dimension produced by a MockVectorizer
// without a custom VectorizeFunc.
const DefaultDimension = 64

// MockVectorizer is a test double for ai.Vectorizer.
// It allows custom behavior injection via function fields.
type MockVectorizer struct {
	// VectorizeFunc is called by Vectorize if set.
	// If nil, uses Vectors and then default deterministic behavior.
	VectorizeFunc func(ctx context.Context, tokens []string) ([][]float32, error)

	// Vectors overrides the deterministic vector of specific tokens.
	// All vectors must have length DefaultDimension.
	Vectors map[string][]float32

	callCount atomic.Int64
}

// NewMockVectorizer creates a mock vectorizer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockVectorizer() *MockVectorizer {
	return &MockVectorizer{}
}

// WithVectorizeFunc sets a custom Vectorize implementation and returns the mock.
func (m *MockVectorizer) WithVectorizeFunc(fn func(ctx context.Context, tokens []string) ([][]float32, error)) *MockVectorizer {
	m.VectorizeFunc = fn
	return m
}

// WithVector pins the vector returned for token and returns the mock.
// The vector is padded or truncated to DefaultDimension.
func (m *MockVectorizer) WithVector(token string, vector ...float32) *MockVectorizer {
	if m.Vectors == nil {
		m.Vectors = make(map[string][]float32)
	}
	v := make([]float32, DefaultDimension)
	copy(v, vector)
	m.Vectors[token] = v
	return m
}

// FailOn makes Vectorize fail whenever token is part of the input.
func (m *MockVectorizer) FailOn(token string) *MockVectorizer {
	return m.WithVectorizeFunc(func(ctx context.Context, tokens []string) ([][]float32, error) {
		for _, t := range tokens {
			if t == token {
				return nil, fmt.Errorf("mock: cannot vectorize %q", token)
			}
		}
		return m.vectorize(tokens), nil
	})
}

// Vectorize returns deterministic vectors derived from a hash of each token.
// Identical tokens get identical vectors; distinct tokens get nearly
// orthogonal ones.
func (m *MockVectorizer) Vectorize(ctx context.Context, tokens []string) ([][]float32, error) {
	m.callCount.Add(1)

	if m.VectorizeFunc != nil {
		return m.VectorizeFunc(ctx, tokens)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.vectorize(tokens), nil
}

func (m *MockVectorizer) vectorize(tokens []string) [][]float32 {
	vectors := make([][]float32, len(tokens))
	for i, token := range tokens {
		if v, ok := m.Vectors[token]; ok {
			vectors[i] = v
			continue
		}
		vectors[i] = generateDeterministicVector(token, DefaultDimension)
	}
	return vectors
}

// CallCount returns the number of times Vectorize was called.
func (m *MockVectorizer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockVectorizer) Reset() {
	m.callCount.Store(0)
	m.VectorizeFunc = nil
	m.Vectors = nil
}

// generateDeterministicVector creates a deterministic unit vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
// Components are centered on zero so unrelated texts have cosine similarity
// close to 0.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	var sumSquares float64
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		v := float32((seed>>8)%1000)/1000.0 - 0.5
		vector[i] = v
		sumSquares += float64(v) * float64(v)
	}

	if sumSquares > 0 {
		norm := float32(1 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}
	return vector
}
