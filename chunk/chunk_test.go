package chunk

import (
	"testing"

	"github.com/poiesic/sapphire/core"
	"github.com/stretchr/testify/assert"
)

func TestConflicts(t *testing.T) {
	np := core.Chunk{Start: 2, End: 4, Label: "NP"}

	tests := []struct {
		name       string
		start, end int
		want       bool
	}{
		{"exact chunk", 2, 4, false},
		{"covers chunk", 1, 5, false},
		{"before chunk", 1, 1, false},
		{"after chunk", 5, 6, false},
		{"starts inside", 3, 5, true},
		{"ends inside", 1, 3, true},
		{"strictly inside", 3, 3, true},
		{"first token only", 2, 2, true},
		{"last token only", 4, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Conflicts(tt.start, tt.end, np))
		})
	}

	t.Run("single token chunk", func(t *testing.T) {
		word := core.Chunk{Start: 3, End: 3}
		assert.False(t, Conflicts(3, 3, word))
		assert.False(t, Conflicts(2, 4, word))
	})

	t.Run("reversed chunk never conflicts", func(t *testing.T) {
		assert.False(t, Conflicts(3, 3, core.Chunk{Start: 4, End: 2}))
	})
}

func TestFilter(t *testing.T) {
	pairs := []core.PhrasePair{
		{Span: core.Span{SourceStart: 1, SourceEnd: 2, TargetStart: 1, TargetEnd: 1}, Score: 0.9},
		{Span: core.Span{SourceStart: 1, SourceEnd: 1, TargetStart: 1, TargetEnd: 1}, Score: 0.8},
		{Span: core.Span{SourceStart: 3, SourceEnd: 3, TargetStart: 2, TargetEnd: 3}, Score: 0.7},
		{Span: core.Span{SourceStart: 3, SourceEnd: 3, TargetStart: 2, TargetEnd: 2}, Score: 0.6},
	}
	src := []core.Chunk{{Start: 1, End: 2}, {Start: 3, End: 3}}
	trg := []core.Chunk{{Start: 1, End: 1}, {Start: 2, End: 3}}

	got := Filter(pairs, src, trg)
	assert.Equal(t, []core.PhrasePair{pairs[0], pairs[2]}, got)

	t.Run("no chunks keeps everything", func(t *testing.T) {
		assert.Equal(t, pairs, Filter(pairs, nil, nil))
	})

	t.Run("single token phrases", func(t *testing.T) {
		word := core.PhrasePair{Span: core.Span{SourceStart: 2, SourceEnd: 2, TargetStart: 2, TargetEnd: 2}}
		// A one-token chunk matched exactly is kept.
		assert.Len(t, Filter([]core.PhrasePair{word}, []core.Chunk{{Start: 2, End: 2}}, nil), 1)
		// Any token of a longer chunk is cut out of it.
		for _, c := range []core.Chunk{{Start: 1, End: 3}, {Start: 2, End: 3}, {Start: 1, End: 2}} {
			assert.Empty(t, Filter([]core.PhrasePair{word}, nil, []core.Chunk{c}), "chunk %v", c)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := Filter(nil, src, trg)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
