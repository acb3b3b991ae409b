package wordalign

import (
	"slices"
	"testing"

	"github.com/poiesic/sapphire/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func dense(rows [][]float64) *mat.Dense {
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		m.SetRow(i, row)
	}
	return m
}

// asymmetric has a growth step in both directions and a final-pass-free result.
var asymmetric = [][]float64{
	{0.9, 0.7, 0.1, 0.0},
	{0.8, 0.3, 0.2, 0.1},
	{0.1, 0.2, 0.6, 0.5},
}

func TestAlign_Identity(t *testing.T) {
	m := dense([][]float64{
		{1.0, 0.2, 0.1},
		{0.2, 1.0, 0.3},
		{0.1, 0.3, 1.0},
	})
	want := []core.Point{{Source: 1, Target: 1}, {Source: 2, Target: 2}, {Source: 3, Target: 3}}

	for _, strategy := range []Strategy{GrowDiagFinal, Hungarian} {
		t.Run(strategy.String(), func(t *testing.T) {
			assert.Equal(t, want, Align(m, 0.6, strategy))
		})
	}
}

func TestAlign_GrowDiagFinal(t *testing.T) {
	m := dense(asymmetric)

	t.Run("grows toward union", func(t *testing.T) {
		points := Align(m, 0, GrowDiagFinal)
		assert.Equal(t, []core.Point{
			{Source: 1, Target: 1},
			{Source: 1, Target: 2},
			{Source: 2, Target: 1},
			{Source: 3, Target: 3},
			{Source: 3, Target: 4},
		}, points)
	})

	t.Run("threshold filters grown points", func(t *testing.T) {
		points := Align(m, 0.6, GrowDiagFinal)
		assert.Equal(t, []core.Point{
			{Source: 1, Target: 1},
			{Source: 1, Target: 2},
			{Source: 2, Target: 1},
			{Source: 3, Target: 3},
		}, points)
	})

	t.Run("diagonal growth reaches unaligned rows", func(t *testing.T) {
		// Row 3 and row 1 both prefer column 2, so (3,2) is only in the
		// union; it is reached diagonally from (2,1).
		m := dense([][]float64{
			{0.1, 0.9},
			{0.8, 0.1},
			{0.1, 0.2},
		})
		points := Align(m, 0, GrowDiagFinal)
		assert.Equal(t, []core.Point{
			{Source: 1, Target: 2},
			{Source: 2, Target: 1},
			{Source: 3, Target: 2},
		}, points)
	})
}

func swap(points []core.Point) []core.Point {
	out := make([]core.Point, len(points))
	for i, p := range points {
		out[i] = core.Point{Source: p.Target, Target: p.Source}
	}
	slices.SortFunc(out, comparePoints)
	return out
}

func TestAlign_GrowDiagFinalTranspose(t *testing.T) {
	t.Run("no competing growth", func(t *testing.T) {
		// Every grown cell is reachable from either side without another
		// grown cell claiming its row or column first.
		m := dense(asymmetric)
		forward := Align(m, 0, GrowDiagFinal)
		backward := Align(mat.DenseCopyOf(m.T()), 0, GrowDiagFinal)
		require.NotEmpty(t, forward)
		assert.Equal(t, forward, swap(backward))
	})

	t.Run("growth order decides competing cells", func(t *testing.T) {
		// Forward, (1,3) grows down to (2,3) before (3,2) grows diagonally
		// to (2,1). On the transpose, (2,3) grows to (1,2) first, which
		// aligns column 2 and blocks the cell that mirrors (2,3).
		m := dense([][]float64{
			{0.3, 0.1, 0.8},
			{0.4, 0.6, 0.7},
			{0.2, 0.9, 0.5},
		})
		forward := Align(m, 0, GrowDiagFinal)
		backward := Align(mat.DenseCopyOf(m.T()), 0, GrowDiagFinal)

		assert.Equal(t, []core.Point{
			{Source: 1, Target: 3},
			{Source: 2, Target: 1},
			{Source: 2, Target: 3},
			{Source: 3, Target: 2},
		}, forward)
		assert.Equal(t, []core.Point{
			{Source: 1, Target: 3},
			{Source: 2, Target: 1},
			{Source: 3, Target: 2},
		}, swap(backward))
	})
}

func TestAlign_Hungarian(t *testing.T) {
	t.Run("optimal rather than greedy", func(t *testing.T) {
		m := dense([][]float64{
			{0.9, 0.8, 0.1},
			{0.85, 0.2, 0.1},
		})
		assert.Equal(t, []core.Point{{Source: 1, Target: 2}, {Source: 2, Target: 1}}, Align(m, 0, Hungarian))
	})

	t.Run("more rows than columns", func(t *testing.T) {
		m := dense([][]float64{
			{0.9, 0.85},
			{0.8, 0.2},
			{0.1, 0.1},
		})
		assert.Equal(t, []core.Point{{Source: 1, Target: 2}, {Source: 2, Target: 1}}, Align(m, 0, Hungarian))
	})

	t.Run("perfect matching of min(m, n) pairs", func(t *testing.T) {
		m := dense(asymmetric)
		points := Align(m, -1, Hungarian)
		require.Len(t, points, 3)

		rows := map[int]bool{}
		cols := map[int]bool{}
		for _, p := range points {
			assert.False(t, rows[p.Source], "source %d matched twice", p.Source)
			assert.False(t, cols[p.Target], "target %d matched twice", p.Target)
			rows[p.Source] = true
			cols[p.Target] = true
		}
	})
}

func TestAlign_Threshold(t *testing.T) {
	t.Run("inclusive boundary", func(t *testing.T) {
		m := dense([][]float64{{0.6}})
		for _, strategy := range []Strategy{GrowDiagFinal, Hungarian} {
			assert.Equal(t, []core.Point{{Source: 1, Target: 1}}, Align(m, 0.6, strategy), strategy.String())
		}
	})

	t.Run("all below threshold", func(t *testing.T) {
		m := dense([][]float64{{0.1, 0.2}, {0.3, 0.4}})
		for _, strategy := range []Strategy{GrowDiagFinal, Hungarian} {
			assert.Empty(t, Align(m, 0.6, strategy), strategy.String())
		}
	})

	t.Run("degenerate zero matrix", func(t *testing.T) {
		m := dense([][]float64{{0, 0, 0}})
		for _, strategy := range []Strategy{GrowDiagFinal, Hungarian} {
			assert.Empty(t, Align(m, 0.6, strategy), strategy.String())
		}
	})

	t.Run("raising the threshold never adds points", func(t *testing.T) {
		m := dense(asymmetric)
		for _, strategy := range []Strategy{GrowDiagFinal, Hungarian} {
			prev := Align(m, 0, strategy)
			for _, threshold := range []float64{0.2, 0.4, 0.6, 0.8, 1.0} {
				next := Align(m, threshold, strategy)
				assert.LessOrEqual(t, len(next), len(prev))
				for _, p := range next {
					assert.Contains(t, prev, p)
				}
				prev = next
			}
		}
	})
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  Strategy
	}{
		{"grow-diag-final", GrowDiagFinal},
		{"GDF", GrowDiagFinal},
		{"hungarian", Hungarian},
		{" Optimal ", Hungarian},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStrategy("intersection")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	assert.Equal(t, "Strategy(7)", Strategy(7).String())
}
