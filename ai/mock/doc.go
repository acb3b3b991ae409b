// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Vectorizer, ai.Chunker
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	vectorizer := mock.NewMockVectorizer()
//	vectors, err := vectorizer.Vectorize(ctx, []string{"the", "cat"})
//
//	// Pin vectors for specific tokens
//	vectorizer = mock.NewMockVectorizer().
//	    WithVector("cat", 1, 0).
//	    WithVector("kitten", 0.9, 0.1)
//
//	// Check call counts
//	count := vectorizer.CallCount()
//
// # Default Behavior
//
//   - MockVectorizer: deterministic unit vectors derived from a token hash
//   - MockChunker: no chunks
//   - MockProvider: a MockVectorizer and, optionally, a MockChunker
package mock
