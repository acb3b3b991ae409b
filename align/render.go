package align

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/sapphire/core"
)

// Phrases returns the tokens covered by span, joined by spaces.
// Out of range indices are clipped.
func Phrases(span core.Span, src, trg []string) (string, string) {
	return join(src, span.SourceStart, span.SourceEnd), join(trg, span.TargetStart, span.TargetEnd)
}

func join(tokens []string, start, end int) string {
	start = max(start, 1)
	end = min(end, len(tokens))
	if start > end {
		return ""
	}
	return strings.Join(tokens[start-1:end], " ")
}

// FormatAlignment renders an alignment as its spans, followed by the score
// when withScore is set.
func FormatAlignment(alignment core.Alignment, withScore bool) string {
	s := alignment.String()
	if withScore {
		score := strconv.FormatFloat(alignment.Score, 'f', 4, 64)
		if s == "" {
			return score
		}
		return s + " " + score
	}
	return s
}

// Render writes every alignment of result followed by one "src <--> trg"
// line per span. Scores are included when the Aligner was configured with
// ReturnScore.
func (a *Aligner) Render(w io.Writer, src, trg []string, result *core.Result) error {
	var alignments []core.Alignment
	if result != nil {
		alignments = result.Alignments
	}
	if len(alignments) == 0 {
		alignments = []core.Alignment{result.Best()}
	}
	for _, alignment := range alignments {
		if _, err := fmt.Fprintf(w, "\n%s\n\n", FormatAlignment(alignment, a.config.ReturnScore)); err != nil {
			return err
		}
		for _, span := range alignment.Spans {
			srcText, trgText := Phrases(span, src, trg)
			if _, err := fmt.Fprintf(w, "%s <--> %s\n", srcText, trgText); err != nil {
				return err
			}
		}
	}
	return nil
}
