package wordalign

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// neighbors lists the 8 grid offsets examined while growing, horizontal and
// vertical first.
var neighbors = [8][2]int{
	{-1, 0}, {0, -1}, {1, 0}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// grid is a boolean matrix with per-row and per-column occupancy counts.
type grid struct {
	rows, cols int
	cells      []bool
	rowCount   []int
	colCount   []int
}

func newGrid(rows, cols int) *grid {
	return &grid{
		rows:     rows,
		cols:     cols,
		cells:    make([]bool, rows*cols),
		rowCount: make([]int, rows),
		colCount: make([]int, cols),
	}
}

func (g *grid) at(r, c int) bool {
	return g.cells[r*g.cols+c]
}

func (g *grid) mark(r, c int) {
	if g.cells[r*g.cols+c] {
		return
	}
	g.cells[r*g.cols+c] = true
	g.rowCount[r]++
	g.colCount[c]++
}

// unaligned reports whether row r or column c has no marked cell.
func (g *grid) unaligned(r, c int) bool {
	return g.rowCount[r] == 0 || g.colCount[c] == 0
}

func (g *grid) inBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// growDiagFinal runs the grow-diag-final heuristic over m and returns the
// marked cells in row-major order.
//
// The result depends on traversal order: growth walks rows first and sees
// its own additions, and the src2trg final pass runs before the trg2src one.
// Aligning the transpose of m therefore need not yield the transposed
// alignment when two union cells compete for the same unaligned row or
// column.
func growDiagFinal(m *mat.Dense) []cell {
	rows, cols := m.Dims()

	src2trg := newGrid(rows, cols)
	row := make([]float64, cols)
	for r := 0; r < rows; r++ {
		mat.Row(row, r, m)
		src2trg.mark(r, floats.MaxIdx(row))
	}

	trg2src := newGrid(rows, cols)
	col := make([]float64, rows)
	for c := 0; c < cols; c++ {
		mat.Col(col, c, m)
		trg2src.mark(floats.MaxIdx(col), c)
	}

	alignment := newGrid(rows, cols)
	union := newGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			inSrc, inTrg := src2trg.at(r, c), trg2src.at(r, c)
			if inSrc && inTrg {
				alignment.mark(r, c)
			}
			if inSrc || inTrg {
				union.mark(r, c)
			}
		}
	}

	growDiag(alignment, union)
	final(alignment, src2trg)
	final(alignment, trg2src)

	var cells []cell
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if alignment.at(r, c) {
				cells = append(cells, cell{r, c})
			}
		}
	}
	return cells
}

// growDiag repeatedly adds union neighbors of aligned cells whose row or
// column is still unaligned, until a full pass adds nothing. Cells added
// during a pass are visible to the remainder of that pass.
func growDiag(alignment, union *grid) {
	for {
		added := false
		for r := 0; r < alignment.rows; r++ {
			for c := 0; c < alignment.cols; c++ {
				if !alignment.at(r, c) {
					continue
				}
				for _, n := range neighbors {
					nr, nc := r+n[0], c+n[1]
					if !alignment.inBounds(nr, nc) {
						continue
					}
					if union.at(nr, nc) && alignment.unaligned(nr, nc) {
						alignment.mark(nr, nc)
						added = true
					}
				}
			}
		}
		if !added {
			return
		}
	}
}

// final adds every cell of directional whose row or column is still unaligned.
func final(alignment, directional *grid) {
	for r := 0; r < alignment.rows; r++ {
		for c := 0; c < alignment.cols; c++ {
			if directional.at(r, c) && alignment.unaligned(r, c) {
				alignment.mark(r, c)
			}
		}
	}
}
