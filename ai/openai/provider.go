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


package openai

import (
	"log/slog"

	"github.com/poiesic/sapphire/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages the vectorizer and, when a chunker model is configured, the chunker.
type Provider struct {
	config     *ai.Config
	vectorizer *Vectorizer
	chunker    *Chunker
	logger     *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	vectorizer, err := newVectorizer(config)
	if err != nil {
		return nil, err
	}

	var chunker *Chunker
	if config.ChunkingEnabled() {
		chunker, err = newChunker(config)
		if err != nil {
			return nil, err
		}
	}

	return &Provider{
		config:     config,
		vectorizer: vectorizer,
		chunker:    chunker,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// Vectorizer returns the token vectorization service.
func (p *Provider) Vectorizer() ai.Vectorizer {
	return p.vectorizer
}

// Chunker returns the chunking service, or nil when no chunker model is configured.
func (p *Provider) Chunker() ai.Chunker {
	if p.chunker == nil {
		return nil
	}
	return p.chunker
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
