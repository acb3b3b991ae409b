// Package lattice finds the best sequence of non-overlapping, monotone phrase
// pairs through the lattice of extracted candidates.
//
// The search anchors on the highest-scoring pair and solves the two sides of
// the anchor independently. Each side is a recursive walk that, from the
// current position, branches on the nearest candidates and on every candidate
// not reachable through one of them. Without a branch limit the number of
// explored paths grows exponentially with the number of candidates; callers
// aligning long sentences should set Options.BranchLimit.
package lattice

import (
	"slices"

	"github.com/poiesic/sapphire/core"
)

// Options controls the search.
type Options struct {
	// BranchLimit caps the number of frontier candidates explored at each
	// step, in discovery order. Zero disables the limit.
	BranchLimit int

	// TopN is the number of alignments returned. Values below 1 mean 1.
	TopN int
}

// Search returns up to opts.TopN alignments built from pairs, best first.
// Alignment scores are the mean of their phrase scores. An empty pairs
// slice yields a single empty alignment scored 0.
func Search(pairs []core.PhrasePair, lenSrc, lenTrg int, opts Options) []core.Alignment {
	if len(pairs) == 0 {
		return []core.Alignment{{Spans: []core.Span{}, Score: 0}}
	}

	anchor := pairs[0]
	for _, p := range pairs[1:] {
		if p.Score > anchor.Score {
			anchor = p
		}
	}

	var prev, next []core.PhrasePair
	for _, p := range pairs {
		switch {
		case p.Precedes(anchor.Span):
			prev = append(prev, p)
		case anchor.Precedes(p.Span):
			next = append(next, p)
		}
	}
	eos := core.PhrasePair{Span: core.Span{
		SourceStart: lenSrc + 1,
		SourceEnd:   lenSrc + 1,
		TargetStart: lenTrg + 1,
		TargetEnd:   lenTrg + 1,
	}}
	prev = append(prev, anchor)
	next = append(next, eos)

	s := newSearcher(opts.BranchLimit)
	before := s.forward(position{1, 1}, s.node(anchor), prev, 0)
	after := s.forward(position{anchor.SourceEnd + 1, anchor.TargetEnd + 1}, s.node(eos), next, 0)

	alignments := make([]core.Alignment, 0, len(before)*len(after))
	for _, b := range before {
		for _, a := range after {
			spans := make([]core.Span, 0, len(b.spans)+1+len(a.spans))
			spans = append(spans, b.spans...)
			spans = append(spans, anchor.Span)
			spans = append(spans, a.spans...)
			alignments = append(alignments, core.Alignment{
				Spans: spans,
				Score: meanScore(b.sum+a.sum+anchor.Score, len(spans)),
			})
		}
	}
	slices.SortStableFunc(alignments, func(x, y core.Alignment) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		default:
			return 0
		}
	})

	return alignments[:min(max(opts.TopN, 1), len(alignments))]
}

func meanScore(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
