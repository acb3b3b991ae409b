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


// Package batch aligns whole corpora of sentence pairs.
//
// A Runner reads pairs from a tab-separated input, aligns them on an ants
// worker pool and writes one JSON object per pair, in input order. Work is
// committed in windows: after each window the output is flushed and, when a
// storage.CheckpointRepository is configured, the number of completed pairs
// is saved under the job name so an interrupted run can resume where it
// stopped.
//
// Remote vectorizers can be wrapped in a RetryVectorizer so that transient
// provider errors are retried with exponential backoff before a pair is
// given up as failed.
package batch
