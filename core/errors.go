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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidSpan indicates a Span failed validation.
	ErrInvalidSpan = errors.New("invalid span")

	// ErrInvalidAlignment indicates an Alignment failed validation.
	ErrInvalidAlignment = errors.New("invalid alignment")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrReversedRange indicates a range whose start lies after its end.
	ErrReversedRange = errors.New("range start after end")

	// ErrOutOfRange indicates an index outside the sentence.
	ErrOutOfRange = errors.New("index out of range")

	// ErrOverlap indicates spans that overlap or are out of order.
	ErrOverlap = errors.New("spans overlap or are out of order")
)
