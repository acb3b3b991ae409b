package wordalign

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// assign solves the rectangular assignment problem on cost = 1 - similarity
// and returns exactly min(rows, cols) matched cells.
func assign(m *mat.Dense) []cell {
	rows, cols := m.Dims()
	transposed := rows > cols
	n, k := rows, cols
	if transposed {
		n, k = cols, rows
	}

	// cost is 1-indexed: cost[i][j] for i in 1..n, j in 1..k, n <= k.
	cost := make([][]float64, n+1)
	for i := 1; i <= n; i++ {
		cost[i] = make([]float64, k+1)
		for j := 1; j <= k; j++ {
			if transposed {
				cost[i][j] = 1 - m.At(j-1, i-1)
			} else {
				cost[i][j] = 1 - m.At(i-1, j-1)
			}
		}
	}

	match := hungarian(cost, n, k)

	cells := make([]cell, 0, n)
	for j := 1; j <= k; j++ {
		i := match[j]
		if i == 0 {
			continue
		}
		if transposed {
			cells = append(cells, cell{row: j - 1, col: i - 1})
		} else {
			cells = append(cells, cell{row: i - 1, col: j - 1})
		}
	}
	return cells
}

// hungarian runs the O(n²k) potentials variant of the Kuhn-Munkres algorithm
// on a 1-indexed n×k cost matrix with n <= k. It returns match where
// match[j] is the row assigned to column j, or 0 for unassigned columns.
func hungarian(cost [][]float64, n, k int) []int {
	u := make([]float64, n+1)
	v := make([]float64, k+1)
	match := make([]int, k+1)
	way := make([]int, k+1)
	minv := make([]float64, k+1)
	used := make([]bool, k+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= k; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0][j] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= k; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}
		// Unwind the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}
	return match
}
