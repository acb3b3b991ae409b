// Package chunk restricts phrase candidates to those that respect the
// syntactic chunks of both sentences.
package chunk

import "github.com/poiesic/sapphire/core"

// Conflicts reports whether the inclusive range [start, end] cuts through c,
// that is, whether it begins strictly inside c or ends strictly inside it.
// Ranges that cover c entirely or do not touch it are compatible, so a single
// token is kept only when it is a one-token chunk or lies outside c.
func Conflicts(start, end int, c core.Chunk) bool {
	if c.End < c.Start {
		return false
	}
	return (c.Start < start && start <= c.End) || (c.Start <= end && end < c.End)
}

// Filter returns the pairs whose source range conflicts with none of
// srcChunks and whose target range conflicts with none of trgChunks.
// Order is preserved.
func Filter(pairs []core.PhrasePair, srcChunks, trgChunks []core.Chunk) []core.PhrasePair {
	kept := make([]core.PhrasePair, 0, len(pairs))
	for _, p := range pairs {
		if conflictsAny(p.SourceStart, p.SourceEnd, srcChunks) ||
			conflictsAny(p.TargetStart, p.TargetEnd, trgChunks) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func conflictsAny(start, end int, chunks []core.Chunk) bool {
	for _, c := range chunks {
		if Conflicts(start, end, c) {
			return true
		}
	}
	return false
}
