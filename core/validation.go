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

import "fmt"

// ValidateSpan validates a Span against the lengths of the two sentences.
//
// Validation rules:
//   - Starts must not exceed ends
//   - All indices must lie within 1..length of their sentence
func ValidateSpan(span Span, lenSrc, lenTrg int) error {
	if span.SourceStart > span.SourceEnd || span.TargetStart > span.TargetEnd {
		return fmt.Errorf("%w: %w: %v", ErrInvalidSpan, ErrReversedRange, span)
	}
	if span.SourceStart < 1 || span.SourceEnd > lenSrc {
		return fmt.Errorf("%w: %w: source %d..%d of %d", ErrInvalidSpan, ErrOutOfRange,
			span.SourceStart, span.SourceEnd, lenSrc)
	}
	if span.TargetStart < 1 || span.TargetEnd > lenTrg {
		return fmt.Errorf("%w: %w: target %d..%d of %d", ErrInvalidSpan, ErrOutOfRange,
			span.TargetStart, span.TargetEnd, lenTrg)
	}
	return nil
}

// ValidateAlignment validates that every span is well formed and that spans
// are pairwise non-overlapping and strictly increasing in both sentences.
func ValidateAlignment(alignment Alignment, lenSrc, lenTrg int) error {
	for i, span := range alignment.Spans {
		if err := ValidateSpan(span, lenSrc, lenTrg); err != nil {
			return fmt.Errorf("%w: span %d: %w", ErrInvalidAlignment, i, err)
		}
		if i > 0 && !alignment.Spans[i-1].Precedes(span) {
			return fmt.Errorf("%w: %w: %v then %v", ErrInvalidAlignment, ErrOverlap,
				alignment.Spans[i-1], span)
		}
	}
	return nil
}

// ValidateChunk validates a Chunk against the length of its sentence.
func ValidateChunk(chunk Chunk, length int) error {
	if chunk.Start > chunk.End {
		return fmt.Errorf("%w: %w: %d..%d", ErrInvalidChunk, ErrReversedRange, chunk.Start, chunk.End)
	}
	if chunk.Start < 1 || chunk.End > length {
		return fmt.Errorf("%w: %w: %d..%d of %d", ErrInvalidChunk, ErrOutOfRange, chunk.Start, chunk.End, length)
	}
	return nil
}
