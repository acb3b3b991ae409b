package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/sapphire/ai"
	"github.com/poiesic/sapphire/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Chunker implements ai.Chunker by asking an OpenAI-compatible chat model
// to chunk the sentence.
type Chunker struct {
	client llms.Model
	logger *slog.Logger
}

// chunkSpan is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type chunkSpan struct {
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// chunking is the wrapper structure for the LLM's JSON response.
type chunking struct {
	Chunks []chunkSpan `json:"chunks"`
}

// newChunker is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChunker(config *ai.Config) (*Chunker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.ChunkingEnabled() {
		return nil, ai.ErrNoChunker
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChunkerHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChunkerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Chunker{
		client: client,
		logger: slog.Default().With("component", "openai-chunker"),
	}, nil
}

// NewChunker creates a new chunker using the provided configuration.
// It returns ai.ErrNoChunker when the configuration names no chunker model.
//
// Returns ai.Chunker interface to enforce abstraction.
func NewChunker(config *ai.Config) (ai.Chunker, error) {
	return newChunker(config)
}

// Chunk asks the model for the chunks of tokens. Chunks that fall outside
// the sentence or overlap an earlier chunk are dropped.
func (c *Chunker) Chunk(ctx context.Context, tokens []string) ([]core.Chunk, error) {
	if len(tokens) == 0 {
		return []core.Chunk{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(formatTokens(tokens))},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result chunking
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			c.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			c.logger.Debug("no choices returned from model")
			return []core.Chunk{}, nil
		}

		responseText := repairJSON(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			c.logger.Warn("error parsing chunker response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		c.logger.Error("failed to parse chunker response after retries", "err", lastErr)
		return nil, lastErr
	}

	chunks := toChunks(result.Chunks, len(tokens))
	c.logger.Debug("chunked sentence",
		"tokens", len(tokens),
		"returned", len(result.Chunks),
		"kept", len(chunks))
	return chunks, nil
}

// toChunks converts model output into valid, non-overlapping chunks sorted by start.
func toChunks(spans []chunkSpan, length int) []core.Chunk {
	chunks := make([]core.Chunk, 0, len(spans))
	for _, s := range spans {
		chunk := core.Chunk{
			Start: s.Start,
			End:   s.End,
			Label: strings.ToUpper(strings.TrimSpace(s.Type)),
		}
		if core.ValidateChunk(chunk, length) != nil {
			continue
		}
		chunks = append(chunks, chunk)
	}

	slices.SortStableFunc(chunks, func(a, b core.Chunk) int {
		return a.Start - b.Start
	})

	kept := chunks[:0]
	lastEnd := 0
	for _, chunk := range chunks {
		if chunk.Start <= lastEnd {
			continue
		}
		kept = append(kept, chunk)
		lastEnd = chunk.End
	}
	return kept
}
