package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored entities such as cached token vectors.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TokenID derives the cache ID of a token vector produced by a given model.
// The namespace keeps vectors of different embedding models apart.
func TokenID(namespace, token string) ID {
	return IDFromContent(namespace + "\x00" + token)
}

// Point is a single word-alignment point. Both indices are 1-based.
type Point struct {
	Source int
	Target int
}

// Span is a pair of inclusive, 1-based token ranges, one per sentence.
type Span struct {
	SourceStart int
	SourceEnd   int
	TargetStart int
	TargetEnd   int
}

// SourceLen returns the number of source tokens covered by the span.
func (s Span) SourceLen() int {
	return s.SourceEnd - s.SourceStart + 1
}

// TargetLen returns the number of target tokens covered by the span.
func (s Span) TargetLen() int {
	return s.TargetEnd - s.TargetStart + 1
}

// Precedes reports whether s ends strictly before other starts, in both sentences.
func (s Span) Precedes(other Span) bool {
	return s.SourceEnd < other.SourceStart && s.TargetEnd < other.TargetStart
}

// String renders the span as comma-joined index lists, "1,2,3-4,5".
func (s Span) String() string {
	var b strings.Builder
	writeRange(&b, s.SourceStart, s.SourceEnd)
	b.WriteByte('-')
	writeRange(&b, s.TargetStart, s.TargetEnd)
	return b.String()
}

func writeRange(b *strings.Builder, start, end int) {
	for i := start; i <= end; i++ {
		if i > start {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(i))
	}
}

// PhrasePair is a candidate phrase correspondence with its similarity score.
type PhrasePair struct {
	Span
	Score float64
}

// Alignment is an ordered sequence of non-overlapping spans, increasing in
// both sentences, with the mean score of its phrase pairs.
type Alignment struct {
	Spans []Span
	Score float64
}

// String renders the alignment as space-separated spans.
func (a Alignment) String() string {
	parts := make([]string, len(a.Spans))
	for i, span := range a.Spans {
		parts[i] = span.String()
	}
	return strings.Join(parts, " ")
}

// Result is the outcome of aligning one sentence pair.
type Result struct {
	WordAlignment []Point     // Sorted by source, then target index
	Alignments    []Alignment // Sorted by descending score
}

// Best returns the highest scoring alignment.
// An empty result yields an empty alignment with score 0.
func (r *Result) Best() Alignment {
	if r == nil || len(r.Alignments) == 0 {
		return Alignment{}
	}
	return r.Alignments[0]
}

// EmptyResult returns a result with no word alignment and a single empty
// phrase alignment scored 0.
func EmptyResult() *Result {
	return &Result{
		WordAlignment: []Point{},
		Alignments:    []Alignment{{Spans: []Span{}}},
	}
}

// Chunk is an inclusive, 1-based token range of one sentence that a phrase
// must not cut through.
type Chunk struct {
	Start int
	End   int
	Label string // Optional chunk type, e.g. "NP"
}

// Checkpoint records how far a batch job has progressed through its input.
type Checkpoint struct {
	Job       string
	Completed int       // Number of leading input pairs already aligned
	UpdatedAt time.Time // When the checkpoint was last written
}
