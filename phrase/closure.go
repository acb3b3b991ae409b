package phrase

import "github.com/poiesic/sapphire/core"

// indicator is a binary len(src)×len(trg) matrix of alignment points.
// Spans passed to its methods use the 1-based coordinates of core.Span.
type indicator struct {
	rows, cols int
	marked     []bool
	points     []core.Point // in-bounds points, deduplicated, input order
}

func newIndicator(rows, cols int, points []core.Point) *indicator {
	m := &indicator{
		rows:   rows,
		cols:   cols,
		marked: make([]bool, rows*cols),
	}
	for _, p := range points {
		if p.Source < 1 || p.Source > rows || p.Target < 1 || p.Target > cols {
			continue
		}
		idx := (p.Source-1)*cols + (p.Target - 1)
		if m.marked[idx] {
			continue
		}
		m.marked[idx] = true
		m.points = append(m.points, p)
	}
	return m
}

func (m *indicator) at(src, trg int) bool {
	return m.marked[(src-1)*m.cols+(trg-1)]
}

// rowHit reports whether source row src has a point within target columns [from, to].
func (m *indicator) rowHit(src, from, to int) bool {
	if src < 1 || src > m.rows {
		return false
	}
	for t := from; t <= to; t++ {
		if m.at(src, t) {
			return true
		}
	}
	return false
}

// colHit reports whether target column trg has a point within source rows [from, to].
func (m *indicator) colHit(trg, from, to int) bool {
	if trg < 1 || trg > m.cols {
		return false
	}
	for s := from; s <= to; s++ {
		if m.at(s, trg) {
			return true
		}
	}
	return false
}

// closed reports whether no point lies on the border rows or columns adjacent to span.
func (m *indicator) closed(span core.Span) bool {
	return !m.rowHit(span.SourceStart-1, span.TargetStart, span.TargetEnd) &&
		!m.rowHit(span.SourceEnd+1, span.TargetStart, span.TargetEnd) &&
		!m.colHit(span.TargetStart-1, span.SourceStart, span.SourceEnd) &&
		!m.colHit(span.TargetEnd+1, span.SourceStart, span.SourceEnd)
}

// close grows span one border at a time until it is closed. Each round
// tries the four borders in order, each seeing the expansions made before it.
func (m *indicator) close(span core.Span) core.Span {
	for !m.closed(span) {
		if m.rowHit(span.SourceStart-1, span.TargetStart, span.TargetEnd) {
			span.SourceStart--
		}
		if m.rowHit(span.SourceEnd+1, span.TargetStart, span.TargetEnd) {
			span.SourceEnd++
		}
		if m.colHit(span.TargetStart-1, span.SourceStart, span.SourceEnd) {
			span.TargetStart--
		}
		if m.colHit(span.TargetEnd+1, span.SourceStart, span.SourceEnd) {
			span.TargetEnd++
		}
	}
	return span
}
