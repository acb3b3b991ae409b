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


// Package align composes the alignment pipeline into an Aligner.
//
// An alignment call runs these stages in order:
//   - vectorize both token sequences with an ai.Vectorizer
//   - build the cosine similarity matrix
//   - derive word alignment points above the Lambda threshold
//   - extract and score phrase pairs above the Delta threshold
//   - optionally drop phrase pairs that cut through chunks from an ai.Chunker
//   - search the phrase lattice for the best non-overlapping alignments
//
// An Aligner binds its Config at construction and never mutates it, so one
// Aligner may serve concurrent calls. Vectorizer and chunker failures are not
// returned as errors: the call logs them and yields core.EmptyResult, so a
// single bad sentence pair cannot stop a corpus run.
package align
