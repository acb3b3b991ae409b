package phrase

import (
	"testing"

	"github.com/poiesic/sapphire/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// basis returns n orthonormal vectors of dimension n.
func basis(n int) [][]float32 {
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = make([]float32, n)
		vectors[i][i] = 1
	}
	return vectors
}

func spans(pairs []core.PhrasePair) []core.Span {
	out := make([]core.Span, len(pairs))
	for i, p := range pairs {
		out[i] = p.Span
	}
	return out
}

func TestExtract_IdenticalSentences(t *testing.T) {
	vectors := basis(3)
	points := []core.Point{{Source: 1, Target: 1}, {Source: 2, Target: 2}, {Source: 3, Target: 3}}

	pairs := Extract(points, vectors, vectors, 0.6, 0.01)

	want := []core.Span{
		{SourceStart: 1, SourceEnd: 1, TargetStart: 1, TargetEnd: 1},
		{SourceStart: 1, SourceEnd: 2, TargetStart: 1, TargetEnd: 2},
		{SourceStart: 1, SourceEnd: 3, TargetStart: 1, TargetEnd: 3},
		{SourceStart: 2, SourceEnd: 2, TargetStart: 2, TargetEnd: 2},
		{SourceStart: 2, SourceEnd: 3, TargetStart: 2, TargetEnd: 3},
		{SourceStart: 3, SourceEnd: 3, TargetStart: 3, TargetEnd: 3},
	}
	require.Equal(t, want, spans(pairs))

	for _, p := range pairs {
		bias := 0.01 / float64(p.SourceLen()+p.TargetLen())
		assert.InDelta(t, 1-bias, p.Score, 1e-6, "span %v", p.Span)
	}
}

func TestExtract_ClosesBoxes(t *testing.T) {
	// Every seed grows to the same 2×2 box: (1,1) pulls in row 2 through
	// (2,1), which pulls in column 2 through (2,2).
	vectors := basis(2)
	points := []core.Point{{Source: 1, Target: 1}, {Source: 2, Target: 1}, {Source: 2, Target: 2}}

	pairs := Extract(points, vectors, vectors, -1, 0)

	require.Len(t, pairs, 1)
	assert.Equal(t, core.Span{SourceStart: 1, SourceEnd: 2, TargetStart: 1, TargetEnd: 2}, pairs[0].Span)
}

func TestExtract_CrossingPoints(t *testing.T) {
	vectors := basis(2)
	points := []core.Point{{Source: 1, Target: 2}, {Source: 2, Target: 1}}

	pairs := Extract(points, vectors, vectors, -1, 0)

	// Sorted by source start, then target start.
	assert.Equal(t, []core.Span{
		{SourceStart: 1, SourceEnd: 2, TargetStart: 1, TargetEnd: 2},
		{SourceStart: 1, SourceEnd: 1, TargetStart: 2, TargetEnd: 2},
		{SourceStart: 2, SourceEnd: 2, TargetStart: 1, TargetEnd: 1},
	}, spans(pairs))
}

func TestExtract_ResultsAreClosed(t *testing.T) {
	vectors := basis(5)
	points := []core.Point{
		{Source: 1, Target: 1}, {Source: 1, Target: 3}, {Source: 2, Target: 2},
		{Source: 3, Target: 2}, {Source: 4, Target: 5}, {Source: 5, Target: 4},
	}
	m := newIndicator(5, 5, points)

	for _, p := range Extract(points, vectors, vectors, -1, 0) {
		require.NoError(t, core.ValidateSpan(p.Span, 5, 5))
		assert.True(t, m.closed(p.Span), "span %v is not closed", p.Span)
	}
}

func TestExtract_Thresholds(t *testing.T) {
	src := [][]float32{{1, 0}, {0, 1}}
	trg := [][]float32{{1, 0}, {1, 1}}
	points := []core.Point{{Source: 1, Target: 1}, {Source: 2, Target: 2}}

	t.Run("delta is inclusive", func(t *testing.T) {
		span := core.Span{SourceStart: 1, SourceEnd: 1, TargetStart: 1, TargetEnd: 1}
		score := Score(span, src, trg, 0.01)
		pairs := Extract(points, src, trg, score, 0.01)
		assert.Contains(t, spans(pairs), span)
	})

	t.Run("raising delta never adds pairs", func(t *testing.T) {
		prev := Extract(points, src, trg, 0, 0.01)
		for _, delta := range []float64{0.5, 0.7, 0.9, 1.0} {
			next := Extract(points, src, trg, delta, 0.01)
			assert.LessOrEqual(t, len(next), len(prev))
			for _, p := range next {
				assert.Contains(t, prev, p)
			}
			prev = next
		}
	})

	t.Run("alpha penalizes short phrases more", func(t *testing.T) {
		short := core.Span{SourceStart: 1, SourceEnd: 1, TargetStart: 1, TargetEnd: 1}
		long := core.Span{SourceStart: 1, SourceEnd: 2, TargetStart: 1, TargetEnd: 2}
		identical := basis(2)
		assert.InDelta(t, 1-0.1/2, Score(short, identical, identical, 0.1), 1e-6)
		assert.InDelta(t, 1-0.1/4, Score(long, identical, identical, 0.1), 1e-6)
	})
}

func TestExtract_Degenerate(t *testing.T) {
	vectors := basis(2)

	t.Run("no points", func(t *testing.T) {
		pairs := Extract(nil, vectors, vectors, 0.6, 0.01)
		assert.NotNil(t, pairs)
		assert.Empty(t, pairs)
	})

	t.Run("out of range points are ignored", func(t *testing.T) {
		points := []core.Point{{Source: 1, Target: 1}, {Source: 3, Target: 1}, {Source: 0, Target: 2}}
		pairs := Extract(points, vectors, vectors, -1, 0)
		assert.Equal(t, []core.Span{{SourceStart: 1, SourceEnd: 1, TargetStart: 1, TargetEnd: 1}}, spans(pairs))
	})

	t.Run("duplicate points", func(t *testing.T) {
		points := []core.Point{{Source: 2, Target: 2}, {Source: 2, Target: 2}}
		pairs := Extract(points, vectors, vectors, -1, 0)
		assert.Len(t, pairs, 1)
	})
}
