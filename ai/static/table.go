// Package static implements ai.Vectorizer over a pretrained word vector table
// in the text ".vec" format used by fastText and word2vec.
//
// The file is memory-mapped read-only. Opening it indexes the byte offset of
// every word; vectors are parsed on lookup, so tables with millions of rows
// open quickly and cost little heap.
package static

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/poiesic/sapphire/ai"
)

var (
	// ErrUnknownToken is returned when a token is missing from the table.
	ErrUnknownToken = errors.New("token not in vector table")

	// ErrMalformedTable is returned when the table cannot be parsed.
	ErrMalformedTable = errors.New("malformed vector table")
)

// Table is a read-only word vector table backed by a memory-mapped file.
// It is safe for concurrent use until Close is called.
type Table struct {
	file        *os.File
	data        mmap.MMap
	rows        map[string]row
	dim         int
	zeroUnknown bool
	logger      *slog.Logger
}

// row locates the vector text of one word inside the mapped file.
type row struct {
	start, end int
}

// Option configures a Table.
type Option func(*Table) error

// WithZeroUnknown makes unknown tokens map to the zero vector instead of
// failing. Zero vectors have similarity 0 with everything, so such tokens
// never align.
func WithZeroUnknown() Option {
	return func(t *Table) error {
		t.zeroUnknown = true
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		t.logger = logger
		return nil
	}
}

// Open maps the table at path and indexes its rows. An optional
// "<count> <dim>" header line is recognized and skipped. When a word occurs
// more than once the first row wins.
func Open(path string, opts ...Option) (*Table, error) {
	t := &Table{
		rows:   make(map[string]row),
		logger: slog.Default().With("component", "static-vectors"),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedTable, path)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	t.file = f
	t.data = data

	if err := t.index(); err != nil {
		t.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedTable, path, err)
	}

	t.logger.Info("vector table opened", "path", path, "words", len(t.rows), "dim", t.dim)
	return t, nil
}

func (t *Table) index() error {
	data := []byte(t.data)
	first := true
	for pos := 0; pos < len(data); {
		end := bytes.IndexByte(data[pos:], '\n')
		if end < 0 {
			end = len(data)
		} else {
			end += pos
		}
		line := data[pos:end]
		lineStart := pos
		pos = end + 1

		line = bytes.TrimRight(line, "\r ")
		if len(line) == 0 {
			continue
		}

		if first {
			first = false
			if dim, ok := parseHeader(line); ok {
				t.dim = dim
				continue
			}
		}

		sep := bytes.IndexByte(line, ' ')
		if sep <= 0 {
			return fmt.Errorf("line at offset %d has no vector", lineStart)
		}
		if t.dim == 0 {
			t.dim = len(bytes.Fields(line[sep+1:]))
		}
		word := string(line[:sep])
		if _, ok := t.rows[word]; ok {
			continue
		}
		t.rows[word] = row{start: lineStart + sep + 1, end: lineStart + len(line)}
	}

	if t.dim == 0 {
		return errors.New("no vectors")
	}
	return nil
}

// parseHeader recognizes a "<count> <dim>" line.
func parseHeader(line []byte) (int, bool) {
	fields := bytes.Fields(line)
	if len(fields) != 2 {
		return 0, false
	}
	if _, err := strconv.Atoi(string(fields[0])); err != nil {
		return 0, false
	}
	dim, err := strconv.Atoi(string(fields[1]))
	if err != nil || dim <= 0 {
		return 0, false
	}
	return dim, true
}

// Dim returns the vector dimension of the table.
func (t *Table) Dim() int {
	return t.dim
}

// Len returns the number of words in the table.
func (t *Table) Len() int {
	return len(t.rows)
}

// Lookup returns the vector of token, trying the lowercased token when the
// exact form is missing.
func (t *Table) Lookup(token string) ([]float32, error) {
	r, ok := t.rows[token]
	if !ok {
		r, ok = t.rows[strings.ToLower(token)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownToken, token)
	}

	fields := bytes.Fields(t.data[r.start:r.end])
	if len(fields) != t.dim {
		return nil, fmt.Errorf("%w: %q has %d components, want %d", ErrMalformedTable, token, len(fields), t.dim)
	}
	vector := make([]float32, t.dim)
	for i, field := range fields {
		v, err := strconv.ParseFloat(string(field), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrMalformedTable, token, err)
		}
		vector[i] = float32(v)
	}
	return vector, nil
}

// Vectorize implements ai.Vectorizer.
func (t *Table) Vectorize(ctx context.Context, tokens []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(tokens))
	for i, token := range tokens {
		v, err := t.Lookup(token)
		if errors.Is(err, ErrUnknownToken) && t.zeroUnknown {
			t.logger.Debug("unknown token", "token", token)
			v, err = make([]float32, t.dim), nil
		}
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Close unmaps the table and closes the underlying file.
func (t *Table) Close() error {
	var errs []error
	if t.data != nil {
		errs = append(errs, t.data.Unmap())
		t.data = nil
	}
	if t.file != nil {
		errs = append(errs, t.file.Close())
		t.file = nil
	}
	return errors.Join(errs...)
}

var _ ai.Vectorizer = (*Table)(nil)
