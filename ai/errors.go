package ai

import "errors"

var (
	// ErrVectorCount indicates a vectorizer returned a different number of
	// vectors than it was given tokens.
	ErrVectorCount = errors.New("vector count does not match token count")

	// ErrNoChunker indicates chunking was requested from a provider
	// configured without a chunker model.
	ErrNoChunker = errors.New("no chunker configured")
)
