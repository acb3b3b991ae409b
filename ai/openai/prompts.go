package openai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/sapphire/ai"
)

const chunkingResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "chunks": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {
            "type": "string"
          },
          "start": {
            "type": "integer",
            "minimum": 1
          },
          "end": {
            "type": "integer",
            "minimum": 1
          }
        },
        "required": ["type", "start", "end"],
        "additionalProperties": false
      }
    }
  },
  "required": ["chunks"],
  "additionalProperties": false
}`

const chunkingPromptTemplate = `Split the given tokenized sentence into shallow syntactic chunks and return them as JSON.

The input lists one token per line as "<index><TAB><token>". Indices start at 1.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Each chunk covers the contiguous, inclusive token range start..end.
- Chunks must not overlap. Tokens that belong to no chunk (punctuation, for example) are left out.
- Type field must match exactly one of the listed values: %s.
- Do not change, merge or split tokens. Refer to tokens only by index.
- If no chunks can be identified, return "chunks": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input:
1	The
2	black
3	cat
4	sat
5	on
6	the
7	mat
8	.
Output:
{
  "chunks": [
    {"type":"NP","start":1,"end":3},
    {"type":"VP","start":4,"end":4},
    {"type":"PP","start":5,"end":5},
    {"type":"NP","start":6,"end":7}
  ]
}`

// buildSystemPrompt creates the system prompt with chunk types embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(chunkingPromptTemplate,
		chunkingResponseSchema,
		strings.Join(ai.ChunkTypes, ", "))
}

// formatTokens renders tokens one per line, prefixed with their 1-based index.
func formatTokens(tokens []string) string {
	var b strings.Builder
	for i, token := range tokens {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\t')
		b.WriteString(token)
		b.WriteByte('\n')
	}
	return b.String()
}
