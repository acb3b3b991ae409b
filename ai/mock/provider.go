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


package mock

import "github.com/poiesic/sapphire/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock vectorizer and chunker instances.
type MockProvider struct {
	vectorizer *MockVectorizer
	chunker    *MockChunker
	closed     bool
}

// NewMockProvider creates a new mock provider with a default mock vectorizer
// and no chunker.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockVectorizer()/GetMockChunker() to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		vectorizer: NewMockVectorizer(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// A nil chunker disables chunking.
func NewMockProviderWithServices(vectorizer *MockVectorizer, chunker *MockChunker) ai.Provider {
	return &MockProvider{
		vectorizer: vectorizer,
		chunker:    chunker,
	}
}

// Vectorizer returns the mock vectorizer.
func (p *MockProvider) Vectorizer() ai.Vectorizer {
	return p.vectorizer
}

// Chunker returns the mock chunker, or nil when none was given.
func (p *MockProvider) Chunker() ai.Chunker {
	if p.chunker == nil {
		return nil
	}
	return p.chunker
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockVectorizer returns the underlying mock vectorizer for test assertions.
func (p *MockProvider) GetMockVectorizer() *MockVectorizer {
	return p.vectorizer
}

// GetMockChunker returns the underlying mock chunker for test assertions.
func (p *MockProvider) GetMockChunker() *MockChunker {
	return p.chunker
}
