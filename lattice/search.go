package lattice

import "github.com/poiesic/sapphire/core"

// position is the next free (source, target) coordinate of a partial path.
type position struct {
	source, target int
}

func (p position) distance(pair core.PhrasePair) int {
	ds := pair.SourceStart - p.source
	dt := pair.TargetStart - p.target
	return ds*ds + dt*dt
}

// node is a lattice vertex. Nodes live in the searcher's arena and are
// referred to by index.
type node struct {
	span  core.Span
	score float64
}

type nodeKey struct {
	sourceStart, targetStart int
}

// solution is a partial path from some node to the end node. sum is the
// accumulated score of every node on the path, excluding the end node.
type solution struct {
	spans []core.Span
	sum   float64
}

// searcher holds the per-call node arena. It is not safe for concurrent use
// and is discarded after a single Search.
type searcher struct {
	limit int
	arena []node
	memo  map[nodeKey][]int
}

func newSearcher(limit int) *searcher {
	return &searcher{
		limit: limit,
		memo:  make(map[nodeKey][]int),
	}
}

// node returns the arena index of the node for pair, creating it on first use.
func (s *searcher) node(pair core.PhrasePair) int {
	key := nodeKey{pair.SourceStart, pair.TargetStart}
	for _, idx := range s.memo[key] {
		if s.arena[idx].span == pair.Span {
			return idx
		}
	}
	idx := len(s.arena)
	s.arena = append(s.arena, node{span: pair.Span, score: pair.Score})
	s.memo[key] = append(s.memo[key], idx)
	return idx
}

// forward enumerates the paths from pos to the end node through candidates.
// acc is the score accumulated by the path so far; it is passed by value so
// sibling branches never observe each other's additions.
func (s *searcher) forward(pos position, end int, candidates []core.PhrasePair, acc float64) []solution {
	if len(candidates) == 0 {
		return []solution{{sum: acc}}
	}

	var solutions []solution
	for _, pair := range s.frontier(pos, candidates) {
		idx := s.node(pair)
		if idx == end {
			solutions = append(solutions, solution{sum: acc})
			continue
		}

		var rest []core.PhrasePair
		for _, c := range candidates {
			if pair.Precedes(c.Span) {
				rest = append(rest, c)
			}
		}

		n := s.arena[idx]
		next := position{n.span.SourceEnd + 1, n.span.TargetEnd + 1}
		for _, sol := range s.forward(next, end, rest, acc+n.score) {
			spans := make([]core.Span, 0, len(sol.spans)+1)
			spans = append(spans, n.span)
			spans = append(spans, sol.spans...)
			solutions = append(solutions, solution{spans: spans, sum: sol.sum})
		}
	}
	return solutions
}

// frontier returns the candidates whose start is nearest to pos, followed by
// every other candidate that no frontier member precedes. The result keeps
// candidate order within each group and is cut to the branch limit.
func (s *searcher) frontier(pos position, candidates []core.PhrasePair) []core.PhrasePair {
	nearest := pos.distance(candidates[0])
	for _, c := range candidates[1:] {
		nearest = min(nearest, pos.distance(c))
	}

	taken := make([]bool, len(candidates))
	var frontier []core.PhrasePair
	for i, c := range candidates {
		if pos.distance(c) == nearest {
			frontier = append(frontier, c)
			taken[i] = true
		}
	}

	for i, c := range candidates {
		if taken[i] {
			continue
		}
		dominated := false
		for _, f := range frontier {
			if f.Precedes(c.Span) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, c)
		}
	}

	if s.limit > 0 && len(frontier) > s.limit {
		frontier = frontier[:s.limit]
	}
	return frontier
}
