package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/poiesic/sapphire/ai/mock"
	"github.com/poiesic/sapphire/align"
	"github.com/poiesic/sapphire/core"
	"github.com/poiesic/sapphire/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpus() []Pair {
	return []Pair{
		{ID: "1", Source: []string{"the", "cat", "sat"}, Target: []string{"the", "cat", "sat"}},
		{ID: "2", Source: []string{"a", "dog"}, Target: []string{"the", "dog"}},
		{ID: "3", Source: []string{"a", "zebra"}, Target: []string{"a", "horse"}},
		{ID: "4", Source: []string{}, Target: []string{"nothing"}},
		{ID: "5", Source: []string{"birds", "fly"}, Target: []string{"birds", "fly"}},
	}
}

func newTestRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	aligner, err := align.NewAligner(mock.NewMockVectorizer().FailOn("zebra"))
	require.NoError(t, err)

	runner, err := NewRunner(aligner, append([]Option{WithPoolSize(2), WithWindow(2)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(runner.Release)
	return runner
}

func decode(t *testing.T, out string) []Record {
	t.Helper()
	var records []Record
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var record Record
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		records = append(records, record)
	}
	return records
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(nil)
	assert.ErrorIs(t, err, ErrAlignerRequired)

	aligner, err := align.NewAligner(mock.NewMockVectorizer())
	require.NoError(t, err)

	_, err = NewRunner(aligner, WithWindow(0))
	assert.Error(t, err)

	runner, err := NewRunner(aligner, WithLogger(nil))
	require.NoError(t, err)
	defer runner.Release()
	assert.Equal(t, DefaultWindow, runner.window)
	assert.Positive(t, runner.pool.Cap())
}

func TestRunner_Run(t *testing.T) {
	var progress bytes.Buffer
	runner := newTestRunner(t, WithProgress(&progress, 1))

	var out bytes.Buffer
	summary, err := runner.Run(context.Background(), "", corpus(), &out)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 5, summary.Aligned)
	assert.Zero(t, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)

	records := decode(t, out.String())
	require.Len(t, records, 5)
	for i, record := range records {
		assert.Equal(t, corpus()[i].ID, record.ID, "records keep input order")
	}

	assert.Equal(t, "the cat sat", records[0].Source)
	assert.Equal(t, "1-1 2-2 3-3", records[0].WordAlignment)
	assert.Equal(t, "1,2,3-1,2,3", records[0].PhraseAlignment)
	assert.Equal(t, "2-2", records[1].WordAlignment)
	assert.True(t, records[2].Failed)
	assert.Empty(t, records[2].PhraseAlignment)
	assert.False(t, records[3].Failed)
	assert.Zero(t, records[3].Score)

	assert.Contains(t, progress.String(), "5/5")
	assert.Contains(t, progress.String(), "1 failed")
}

func TestRunner_Resume(t *testing.T) {
	_, checkpoints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	runner := newTestRunner(t, WithCheckpoints(checkpoints))
	ctx := context.Background()
	pairs := corpus()

	var first bytes.Buffer
	summary, err := runner.Run(ctx, "corpus", pairs[:3], &first)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Aligned)

	completed, err := runner.Completed(ctx, "corpus")
	require.NoError(t, err)
	assert.Equal(t, 3, completed)

	var second bytes.Buffer
	summary, err = runner.Run(ctx, "corpus", pairs, &second)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, 2, summary.Aligned)

	records := decode(t, second.String())
	require.Len(t, records, 2)
	assert.Equal(t, "4", records[0].ID)
	assert.Equal(t, "5", records[1].ID)

	t.Run("finished job writes nothing", func(t *testing.T) {
		var out bytes.Buffer
		summary, err := runner.Run(ctx, "corpus", pairs, &out)
		require.NoError(t, err)
		assert.Zero(t, summary.Aligned)
		assert.Zero(t, out.Len())
	})

	t.Run("reset starts over", func(t *testing.T) {
		require.NoError(t, runner.Reset(ctx, "corpus"))
		completed, err := runner.Completed(ctx, "corpus")
		require.NoError(t, err)
		assert.Zero(t, completed)
	})

	t.Run("unnamed jobs do not checkpoint", func(t *testing.T) {
		var out bytes.Buffer
		_, err := runner.Run(ctx, "", pairs[:2], &out)
		require.NoError(t, err)

		checkpoint, err := checkpoints.LoadCheckpoint(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, checkpoint)
	})
}

func TestRunner_Cancelled(t *testing.T) {
	runner := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	summary, err := runner.Run(ctx, "", corpus(), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Aligned)
	assert.Zero(t, out.Len())
}

// stubAligner returns a fixed result.
type stubAligner struct {
	result *core.Result
}

func (s stubAligner) AlignWithMonitor(ctx context.Context, src, trg []string, monitor align.Monitor) (*core.Result, error) {
	return s.result, nil
}

func TestRunner_TopN(t *testing.T) {
	runner, err := NewRunner(stubAligner{result: &core.Result{
		WordAlignment: []core.Point{{Source: 1, Target: 1}},
		Alignments: []core.Alignment{
			{Spans: []core.Span{{SourceStart: 1, SourceEnd: 1, TargetStart: 1, TargetEnd: 1}}, Score: 0.9},
			{Spans: []core.Span{}, Score: 0},
		},
	}}, WithPoolSize(1))
	require.NoError(t, err)
	defer runner.Release()

	var out bytes.Buffer
	_, err = runner.Run(context.Background(), "", corpus()[:1], &out)
	require.NoError(t, err)

	records := decode(t, out.String())
	require.Len(t, records, 1)
	assert.Equal(t, "1-1", records[0].PhraseAlignment)
	assert.Equal(t, []Candidate{{PhraseAlignment: "", Score: 0}}, records[0].Alternatives)
}
