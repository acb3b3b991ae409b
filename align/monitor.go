package align

import "github.com/poiesic/sapphire/core"

// Stage names passed to Monitor.Failed.
const (
	StageVectorize  = "vectorize"
	StageSimilarity = "similarity"
	StageChunk      = "chunk"
)

// Monitor provides hooks to observe an alignment call.
// Implement this interface to inspect intermediate results.
type Monitor interface {
	Start(src, trg []string)
	AfterWordAlignment(points []core.Point)
	AfterPhraseExtraction(pairs []core.PhrasePair)
	AfterChunkFilter(kept []core.PhrasePair, dropped int)
	Failed(stage string, err error)
	Finish(result *core.Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ []string)                         {}
func (n *noopMonitor) AfterWordAlignment(_ []core.Point)           {}
func (n *noopMonitor) AfterPhraseExtraction(_ []core.PhrasePair)   {}
func (n *noopMonitor) AfterChunkFilter(_ []core.PhrasePair, _ int) {}
func (n *noopMonitor) Failed(_ string, _ error)                    {}
func (n *noopMonitor) Finish(_ *core.Result)                       {}
