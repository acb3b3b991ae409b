package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/sapphire/core"
)

// Pair is one sentence pair of a corpus.
type Pair struct {
	ID     string
	Source []string
	Target []string
}

// ReadPairs reads tab-separated sentence pairs, one per line. A line is
// either "source<TAB>target" or "id<TAB>source<TAB>target"; without an id
// the 1-based line number is used. Sentences are split on whitespace.
// Blank lines are skipped.
func ReadPairs(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		var pair Pair
		switch len(fields) {
		case 2:
			pair = Pair{ID: strconv.Itoa(lineNo), Source: strings.Fields(fields[0]), Target: strings.Fields(fields[1])}
		case 3:
			pair = Pair{ID: fields[0], Source: strings.Fields(fields[1]), Target: strings.Fields(fields[2])}
		default:
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedLine, lineNo, len(fields))
		}
		pairs = append(pairs, pair)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// Record is the output line written for one aligned pair.
type Record struct {
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Target          string      `json:"target"`
	WordAlignment   string      `json:"word_alignment"`
	PhraseAlignment string      `json:"phrase_alignment"`
	Score           float64     `json:"score"`
	Alternatives    []Candidate `json:"alternatives,omitempty"`
	Failed          bool        `json:"failed,omitempty"`
}

// Candidate is a lower ranked phrase alignment.
type Candidate struct {
	PhraseAlignment string  `json:"phrase_alignment"`
	Score           float64 `json:"score"`
}

// NewRecord builds the output record of pair.
func NewRecord(pair Pair, result *core.Result, failed bool) Record {
	best := result.Best()
	record := Record{
		ID:              pair.ID,
		Source:          strings.Join(pair.Source, " "),
		Target:          strings.Join(pair.Target, " "),
		WordAlignment:   FormatPoints(result.WordAlignment),
		PhraseAlignment: best.String(),
		Score:           best.Score,
		Failed:          failed,
	}
	if len(result.Alignments) > 1 {
		for _, alignment := range result.Alignments[1:] {
			record.Alternatives = append(record.Alternatives, Candidate{
				PhraseAlignment: alignment.String(),
				Score:           alignment.Score,
			})
		}
	}
	return record
}

// FormatPoints renders word alignment points as "1-1 2-3".
func FormatPoints(points []core.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = strconv.Itoa(p.Source) + "-" + strconv.Itoa(p.Target)
	}
	return strings.Join(parts, " ")
}

// RecordWriter writes records as JSON lines.
type RecordWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewRecordWriter creates a RecordWriter on w.
func NewRecordWriter(w io.Writer) *RecordWriter {
	bw := bufio.NewWriter(w)
	return &RecordWriter{w: bw, enc: json.NewEncoder(bw)}
}

// Write buffers one record.
func (w *RecordWriter) Write(record Record) error {
	return w.enc.Encode(record)
}

// Flush writes buffered records to the underlying writer.
func (w *RecordWriter) Flush() error {
	return w.w.Flush()
}
