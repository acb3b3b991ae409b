package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sapphire/align"
	"github.com/poiesic/sapphire/core"
	"github.com/poiesic/sapphire/storage"
	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultWindow is the default number of pairs committed at a time.
const DefaultWindow = 100

// Aligner aligns one sentence pair. *align.Aligner implements it.
type Aligner interface {
	AlignWithMonitor(ctx context.Context, src, trg []string, monitor align.Monitor) (*core.Result, error)
}

var _ Aligner = (*align.Aligner)(nil)

// Summary describes a finished or interrupted run.
type Summary struct {
	RunID   string
	Total   int // Pairs in the input
	Skipped int // Pairs completed by earlier runs
	Aligned int // Pairs aligned by this run
	Failed  int // Aligned pairs that produced an empty result after a failure
	Elapsed time.Duration
}

// Runner aligns corpora of sentence pairs.
type Runner struct {
	aligner        Aligner
	checkpoints    storage.CheckpointRepository
	pool           *ants.Pool
	window         int
	progress       io.Writer
	reportInterval int
	logger         *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithPoolSize sets the number of pairs aligned concurrently.
// Default is the number of physical CPU cores.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithWindow sets how many pairs are aligned between two commits.
func WithWindow(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			return errors.New("window must be at least 1")
		}
		r.window = size
		return nil
	}
}

// WithCheckpoints saves progress to repo after every window.
func WithCheckpoints(repo storage.CheckpointRepository) Option {
	return func(r *Runner) error {
		r.checkpoints = repo
		return nil
	}
}

// WithProgress reports progress to w every reportInterval pairs.
func WithProgress(w io.Writer, reportInterval int) Option {
	return func(r *Runner) error {
		r.progress = w
		r.reportInterval = reportInterval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a Runner. Call Release when done with it.
func NewRunner(aligner Aligner, opts ...Option) (*Runner, error) {
	if aligner == nil {
		return nil, ErrAlignerRequired
	}

	r := &Runner{
		aligner:        aligner,
		window:         DefaultWindow,
		progress:       io.Discard,
		reportInterval: DefaultWindow,
		logger:         slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Release()
			return nil, err
		}
	}

	if r.pool == nil {
		pool, err := ants.NewPool(defaultPoolSize())
		if err != nil {
			return nil, err
		}
		r.pool = pool
	}
	r.logger = r.logger.With("component", "batch")

	return r, nil
}

// defaultPoolSize returns the number of physical cores, falling back to
// logical CPUs when it cannot be read.
func defaultPoolSize() int {
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Release releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Completed returns how many leading pairs of job earlier runs completed.
func (r *Runner) Completed(ctx context.Context, job string) (int, error) {
	if r.checkpoints == nil || job == "" {
		return 0, nil
	}
	checkpoint, err := r.checkpoints.LoadCheckpoint(ctx, job)
	if err != nil {
		return 0, err
	}
	if checkpoint == nil {
		return 0, nil
	}
	return checkpoint.Completed, nil
}

// Reset forgets the progress of job.
func (r *Runner) Reset(ctx context.Context, job string) error {
	if r.checkpoints == nil || job == "" {
		return nil
	}
	return r.checkpoints.DeleteCheckpoint(ctx, job)
}

// Run aligns pairs and writes one Record per pair to out, in input order.
// Pairs completed by an earlier run of job are skipped; an empty job never
// checkpoints. On error the returned Summary covers the committed windows.
func (r *Runner) Run(ctx context.Context, job string, pairs []Pair, out io.Writer) (*Summary, error) {
	summary := &Summary{RunID: uuid.New().String(), Total: len(pairs)}
	logger := r.logger.With("run", summary.RunID, "job", job)

	start, err := r.Completed(ctx, job)
	if err != nil {
		logger.Error("error loading checkpoint", "err", err)
		return summary, err
	}
	start = min(start, len(pairs))
	summary.Skipped = start
	if start > 0 {
		logger.Info("resuming batch run", "completed", start, "total", len(pairs))
	}

	tracker := NewProgressTracker(r.progress, len(pairs), r.reportInterval)
	tracker.Start(start)
	writer := NewRecordWriter(out)

	for lo := start; lo < len(pairs); lo += r.window {
		hi := min(lo+r.window, len(pairs))

		records, failed, err := r.alignWindow(ctx, pairs[lo:hi])
		if err != nil {
			summary.Elapsed = tracker.Elapsed()
			return summary, err
		}
		for _, record := range records {
			if err := writer.Write(record); err != nil {
				return summary, err
			}
		}
		if err := writer.Flush(); err != nil {
			return summary, err
		}

		summary.Aligned += hi - lo
		summary.Failed += failed
		tracker.Add(hi-lo, failed)

		if r.checkpoints != nil && job != "" {
			if err := r.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{Job: job, Completed: hi}); err != nil {
				logger.Error("error saving checkpoint", "completed", hi, "err", err)
				return summary, err
			}
		}
	}

	tracker.Finish()
	summary.Elapsed = tracker.Elapsed()
	logger.Info("batch run complete",
		"aligned", summary.Aligned,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed.Round(time.Millisecond))

	return summary, nil
}

// alignWindow aligns window concurrently and returns its records in order.
func (r *Runner) alignWindow(ctx context.Context, window []Pair) ([]Record, int, error) {
	records := make([]Record, len(window))
	errs := make([]error, len(window))

	var wg sync.WaitGroup
	for i, pair := range window {
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			monitor := &failureMonitor{}
			result, err := r.aligner.AlignWithMonitor(ctx, pair.Source, pair.Target, monitor)
			if err != nil {
				errs[i] = err
				return
			}
			records[i] = NewRecord(pair, result, monitor.failed)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
			break
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		return nil, 0, err
	}

	failed := 0
	for _, record := range records {
		if record.Failed {
			failed++
		}
	}
	return records, failed, nil
}

// failureMonitor remembers whether an alignment call failed.
type failureMonitor struct {
	failed bool
}

var _ align.Monitor = (*failureMonitor)(nil)

func (m *failureMonitor) Start(_, _ []string)                         {}
func (m *failureMonitor) AfterWordAlignment(_ []core.Point)           {}
func (m *failureMonitor) AfterPhraseExtraction(_ []core.PhrasePair)   {}
func (m *failureMonitor) AfterChunkFilter(_ []core.PhrasePair, _ int) {}
func (m *failureMonitor) Failed(_ string, _ error)                    { m.failed = true }
func (m *failureMonitor) Finish(_ *core.Result)                       {}
