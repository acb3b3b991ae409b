// Package similarity builds dense cosine-similarity matrices between the
// token vectors of two sentences.
package similarity

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyInput is returned when either side has no vectors.
	ErrEmptyInput = errors.New("similarity: empty vector sequence")

	// ErrDimensionMismatch is returned when vectors differ in length.
	ErrDimensionMismatch = errors.New("similarity: dimension mismatch")
)

// Build returns the len(src)×len(trg) matrix whose (i, j) entry is the cosine
// similarity of src[i] and trg[j]. Zero vectors have similarity 0 with
// everything.
func Build(src, trg [][]float32) (*mat.Dense, error) {
	if len(src) == 0 || len(trg) == 0 {
		return nil, ErrEmptyInput
	}
	dim := len(src[0])
	srcRows, err := toFloat64(src, dim)
	if err != nil {
		return nil, err
	}
	trgRows, err := toFloat64(trg, dim)
	if err != nil {
		return nil, err
	}

	srcNorms := norms(srcRows)
	trgNorms := norms(trgRows)

	m := mat.NewDense(len(src), len(trg), nil)
	for i, a := range srcRows {
		for j, b := range trgRows {
			m.Set(i, j, cosine(a, b, srcNorms[i], trgNorms[j]))
		}
	}
	return m, nil
}

// Cosine returns the cosine similarity of two equal-length vectors,
// or 0 when either vector has zero magnitude.
func Cosine(a, b []float64) float64 {
	return cosine(a, b, floats.Norm(a, 2), floats.Norm(b, 2))
}

func cosine(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}

// Mean returns the element-wise mean of a non-empty set of equal-length vectors.
func Mean(vectors [][]float32) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for k, x := range v {
			mean[k] += float64(x)
		}
	}
	floats.Scale(1/float64(len(vectors)), mean)
	return mean
}

func toFloat64(vectors [][]float32, dim int) ([][]float64, error) {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(v), dim)
		}
		row := make([]float64, dim)
		for k, x := range v {
			row[k] = float64(x)
		}
		out[i] = row
	}
	return out, nil
}

func norms(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = floats.Norm(row, 2)
	}
	return out
}
