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


// Package ai provides abstractions for the external services an aligner
// depends on.
//
// The package defines three interfaces:
//
//   - Vectorizer: maps tokens to fixed-dimension vectors
//   - Chunker: groups the tokens of a sentence into syntactic chunks
//   - Provider: aggregates both for convenient initialization and cleanup
//
// # Implementation Packages
//
//   - ai/openai: embeddings and LLM chunking over OpenAI-compatible APIs
//   - ai/static: a read-only word vector table loaded from a .vec file
//   - ai/cache: a Vectorizer decorator backed by a storage.VectorCache
//   - ai/mock: test doubles for unit testing without external services
//
// Production constructors return interface types. Mock constructors return
// concrete types so tests can inject behavior and inspect call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithEmbeddingModel("embeddinggemma"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Vectorizer().Vectorize(ctx, []string{"the", "cat", "sat"})
package ai
