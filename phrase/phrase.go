// Package phrase extracts scored phrase pairs that are consistent with a
// word alignment.
//
// Every ordered pair of alignment points seeds a bounding box. The box is
// grown until no alignment point lies on the rows directly above or below it
// (within its target columns) or on the columns directly left or right of it
// (within its source rows). The closed boxes are deduplicated and scored by
// the cosine similarity of their mean token vectors, minus a length bias.
package phrase

import (
	"slices"

	"github.com/poiesic/sapphire/core"
	"github.com/poiesic/sapphire/similarity"
)

// Extract returns the phrase pairs consistent with points whose score is at
// least delta, sorted by (SourceStart, TargetStart, SourceEnd, TargetEnd).
//
// The score of a span is cos(mean(src span), mean(trg span)) - alpha/(srcLen+trgLen).
// Points outside the bounds of src or trg are ignored.
func Extract(points []core.Point, src, trg [][]float32, delta, alpha float64) []core.PhrasePair {
	m := newIndicator(len(src), len(trg), points)
	if len(m.points) == 0 {
		return []core.PhrasePair{}
	}

	spans := make(map[core.Span]struct{})
	for i, p1 := range m.points {
		// The box seeded by (p1, p2) equals the one seeded by (p2, p1).
		for _, p2 := range m.points[i:] {
			seed := core.Span{
				SourceStart: min(p1.Source, p2.Source),
				SourceEnd:   max(p1.Source, p2.Source),
				TargetStart: min(p1.Target, p2.Target),
				TargetEnd:   max(p1.Target, p2.Target),
			}
			spans[m.close(seed)] = struct{}{}
		}
	}

	pairs := make([]core.PhrasePair, 0, len(spans))
	for span := range spans {
		score := Score(span, src, trg, alpha)
		if score >= delta {
			pairs = append(pairs, core.PhrasePair{Span: span, Score: score})
		}
	}
	slices.SortFunc(pairs, comparePairs)
	return pairs
}

// Score returns the length-biased similarity of the vectors under span.
func Score(span core.Span, src, trg [][]float32, alpha float64) float64 {
	srcMean := similarity.Mean(src[span.SourceStart-1 : span.SourceEnd])
	trgMean := similarity.Mean(trg[span.TargetStart-1 : span.TargetEnd])
	return similarity.Cosine(srcMean, trgMean) - alpha/float64(span.SourceLen()+span.TargetLen())
}

func comparePairs(a, b core.PhrasePair) int {
	switch {
	case a.SourceStart != b.SourceStart:
		return a.SourceStart - b.SourceStart
	case a.TargetStart != b.TargetStart:
		return a.TargetStart - b.TargetStart
	case a.SourceEnd != b.SourceEnd:
		return a.SourceEnd - b.SourceEnd
	default:
		return a.TargetEnd - b.TargetEnd
	}
}
