// Package wordalign derives discrete word alignments from a similarity matrix.
//
// Two interchangeable strategies are provided:
//
//   - GrowDiagFinal: symmetric heuristic growth from the intersection of the
//     two directional best-match matrices toward their union
//   - Hungarian: minimum-cost perfect matching (cost = 1 - similarity)
//     between the smaller and the larger index set
//
// Both strategies are deterministic. The strategies can produce structurally
// different alignments; neither is a refinement of the other.
package wordalign

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/sapphire/core"
	"gonum.org/v1/gonum/mat"
)

// ErrUnknownStrategy is returned when parsing an unrecognized strategy name.
var ErrUnknownStrategy = errors.New("unknown word alignment strategy")

// Strategy selects the word alignment algorithm.
type Strategy int

const (
	// GrowDiagFinal is the symmetric heuristic growth strategy.
	GrowDiagFinal Strategy = iota
	// Hungarian is the optimal assignment strategy.
	Hungarian
)

// String returns the flag-style name of the strategy.
func (s Strategy) String() string {
	switch s {
	case GrowDiagFinal:
		return "grow-diag-final"
	case Hungarian:
		return "hungarian"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name as returned by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "grow-diag-final", "gdf":
		return GrowDiagFinal, nil
	case "hungarian", "optimal":
		return Hungarian, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Align selects alignment points from m with the given strategy and keeps
// those whose similarity is at least threshold. Points are 1-indexed and
// sorted by source, then target index.
func Align(m *mat.Dense, threshold float64, strategy Strategy) []core.Point {
	var cells []cell
	switch strategy {
	case Hungarian:
		cells = assign(m)
	default:
		cells = growDiagFinal(m)
	}

	points := make([]core.Point, 0, len(cells))
	for _, c := range cells {
		if m.At(c.row, c.col) >= threshold {
			points = append(points, core.Point{Source: c.row + 1, Target: c.col + 1})
		}
	}
	slices.SortFunc(points, comparePoints)
	return points
}

// cell is a 0-indexed matrix position.
type cell struct {
	row int
	col int
}

func comparePoints(a, b core.Point) int {
	if a.Source != b.Source {
		return a.Source - b.Source
	}
	return a.Target - b.Target
}
