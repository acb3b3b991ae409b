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


// Package storage provides the storage abstraction layer for sapphire.
//
// Alignment results are never persisted. Storage holds two kinds of derived
// state that make repeated and long-running alignment cheaper:
//
//   - VectorCache: token vectors keyed by core.TokenID, so a token is sent
//     to the embedding service once per model
//   - CheckpointRepository: batch job progress, so an interrupted corpus run
//     resumes where it stopped
//
// Values are encoded with mus-go (see serialization.go).
//
// # Implementations
//
//   - storage/badger: embedded BadgerDB, on disk or in memory
//   - storage/redis: a Redis VectorCache shared between processes
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/cache", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	vectors := badger.NewVectorRepository(backend)
//	checkpoints := badger.NewCheckpointRepository(backend)
//
// Use in tests with in-memory storage:
//
//	vectors, checkpoints, backend, err := badger.NewMemoryRepositories()
package storage
