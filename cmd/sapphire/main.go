// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/poiesic/sapphire"
	"github.com/poiesic/sapphire/ai"
	"github.com/poiesic/sapphire/align"
	"github.com/poiesic/sapphire/batch"
	"github.com/poiesic/sapphire/wordalign"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sapphire",
		Usage: "Monolingual word and phrase alignment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "align",
				Usage:     "Align one sentence pair, or pairs read interactively",
				ArgsUsage: "[source-sentence target-sentence]",
				Action:    alignCommand,
				Flags:     append(engineFlags(), alignerFlags()...),
			},
			{
				Name:   "batch",
				Usage:  "Align a tab-separated corpus into JSON lines",
				Action: batchCommand,
				Flags: append(append(engineFlags(), alignerFlags()...),
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Tab-separated input: [id<TAB>]source<TAB>target per line",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file for JSON lines (- for stdout)",
						Value:   "-",
					},
					&cli.StringFlag{
						Name:  "job",
						Usage: "Job name for checkpoints (requires --store)",
					},
					&cli.BoolFlag{
						Name:  "restart",
						Usage: "Discard the job checkpoint and start over",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of pairs aligned concurrently (0 = physical cores)",
					},
					&cli.IntFlag{
						Name:  "window",
						Usage: "Number of pairs aligned between checkpoints",
						Value: batch.DefaultWindow,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N pairs",
						Value: 100,
					},
				),
			},
		},
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.IntFlag{
			Name:  "embedding-batch-size",
			Usage: "Maximum tokens per embedding request",
			Value: 64,
		},
		&cli.StringFlag{
			Name:  "chunker-host",
			Usage: "Chunker service host URL (defaults to embedding-host if not specified)",
		},
		&cli.StringFlag{
			Name:  "chunker-model",
			Usage: "Chat model used to chunk sentences; chunking is disabled when empty",
		},
		&cli.StringFlag{
			Name:  "vectors",
			Usage: "Word vector file (.vec) used instead of the embedding service",
		},
		&cli.StringFlag{
			Name:    "store",
			Aliases: []string{"s"},
			Usage:   "BadgerDB directory for cached vectors and checkpoints",
		},
		&cli.StringFlag{
			Name:  "redis-addr",
			Usage: "Redis address for a shared vector cache",
		},
		&cli.StringFlag{
			Name:  "redis-password",
			Usage: "Redis password",
		},
		&cli.IntFlag{
			Name:  "redis-db",
			Usage: "Redis database number",
		},
		&cli.DurationFlag{
			Name:  "redis-ttl",
			Usage: "Expiry of vectors cached in Redis (0 = never)",
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum attempts for failed embedding requests",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
	}
}

func alignerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "lambda",
			Usage: "Word alignment threshold",
			Value: align.DefaultLambda,
		},
		&cli.Float64Flag{
			Name:  "delta",
			Usage: "Phrase alignment threshold",
			Value: align.DefaultDelta,
		},
		&cli.Float64Flag{
			Name:  "alpha",
			Usage: "Phrase length bias",
			Value: align.DefaultAlpha,
		},
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "Word alignment strategy (grow-diag-final, hungarian)",
			Value: wordalign.GrowDiagFinal.String(),
		},
		&cli.IntFlag{
			Name:  "branch-limit",
			Usage: "Cap on lattice search branching (0 = unlimited)",
		},
		&cli.IntFlag{
			Name:  "top-n",
			Usage: "Number of alignments returned per pair",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:  "score",
			Usage: "Print alignment scores",
		},
	}
}

// openEngine builds an engine from the engine flags.
func openEngine(c *cli.Context) (*sapphire.Engine, error) {
	chunkerHost := c.String("chunker-host")
	if chunkerHost == "" {
		chunkerHost = c.String("embedding-host")
	}
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithBatchSize(c.Int("embedding-batch-size")),
		ai.WithChunkerHost(chunkerHost),
		ai.WithChunkerModel(c.String("chunker-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	if c.Int("max-retries") <= 0 {
		return nil, fmt.Errorf("max-retries must be greater than 0")
	}

	opts := []sapphire.EngineOption{
		sapphire.WithAIConfig(aiConfig),
		sapphire.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if path := c.String("vectors"); path != "" {
		opts = append(opts, sapphire.WithVectorTable(path))
	}
	if path := c.String("store"); path != "" {
		opts = append(opts, sapphire.WithStore(path))
	}
	if addr := c.String("redis-addr"); addr != "" {
		opts = append(opts, sapphire.WithRedisCache(addr, c.String("redis-password"), c.Int("redis-db"), c.Duration("redis-ttl")))
	}

	engine, err := sapphire.NewEngine(c.Context, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

// alignerOptions maps the aligner flags onto align options.
func alignerOptions(c *cli.Context) ([]align.Option, error) {
	strategy, err := wordalign.ParseStrategy(c.String("strategy"))
	if err != nil {
		return nil, err
	}
	return []align.Option{
		align.WithLambda(c.Float64("lambda")),
		align.WithDelta(c.Float64("delta")),
		align.WithAlpha(c.Float64("alpha")),
		align.WithStrategy(strategy),
		align.WithBranchLimit(c.Int("branch-limit")),
		align.WithTopN(c.Int("top-n")),
		align.WithReturnScore(c.Bool("score")),
	}, nil
}

func newAligner(c *cli.Context, engine *sapphire.Engine) (*align.Aligner, error) {
	opts, err := alignerOptions(c)
	if err != nil {
		return nil, err
	}
	aligner, err := engine.NewAligner(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aligner: %w", err)
	}
	return aligner, nil
}

func alignCommand(c *cli.Context) error {
	if c.NArg() != 0 && c.NArg() != 2 {
		return fmt.Errorf("expected two sentences or none, got %d arguments", c.NArg())
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	aligner, err := newAligner(c, engine)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if c.NArg() == 2 {
		src, trg := strings.Fields(c.Args().Get(0)), strings.Fields(c.Args().Get(1))
		return alignAndRender(c.Context, aligner, out, src, trg)
	}
	return interactive(c.Context, aligner, c.App.Reader, out)
}

func alignAndRender(ctx context.Context, aligner *align.Aligner, out io.Writer, src, trg []string) error {
	result, err := aligner.Align(ctx, src, trg)
	if err != nil {
		return err
	}
	return aligner.Render(out, src, trg, result)
}

// interactive prompts for sentence pairs until "exit" or end of input.
func interactive(ctx context.Context, aligner *align.Aligner, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	prompt := func(label string) (string, bool) {
		for {
			fmt.Fprintln(out, label)
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return "", false
			}
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line, line != "exit"
			}
		}
	}

	for {
		src, ok := prompt("Input sentence1")
		if !ok {
			break
		}
		trg, ok := prompt("Input sentence2")
		if !ok {
			break
		}
		if err := alignAndRender(ctx, aligner, out, strings.Fields(src), strings.Fields(trg)); err != nil {
			return err
		}
		fmt.Fprintln(out, "---")
	}
	return scanner.Err()
}

func batchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	job := c.String("job")
	if job != "" && c.String("store") == "" {
		return fmt.Errorf("--job requires --store")
	}
	if c.Int("window") <= 0 {
		return fmt.Errorf("window must be greater than 0")
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	in, err := os.Open(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	pairs, err := batch.ReadPairs(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	aligner, err := newAligner(c, engine)
	if err != nil {
		return err
	}

	runnerOpts := []batch.Option{
		batch.WithWindow(c.Int("window")),
		batch.WithProgress(c.App.ErrWriter, c.Int("report-interval")),
	}
	if workers := c.Int("workers"); workers > 0 {
		runnerOpts = append(runnerOpts, batch.WithPoolSize(workers))
	}
	runner, err := engine.NewRunner(aligner, runnerOpts...)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	defer runner.Release()

	if c.Bool("restart") {
		if err := runner.Reset(ctx, job); err != nil {
			return fmt.Errorf("failed to reset job: %w", err)
		}
	}
	completed, err := runner.Completed(ctx, job)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	out, closeOut, err := openOutput(c, completed > 0)
	if err != nil {
		return err
	}
	defer closeOut()

	fmt.Fprintf(c.App.ErrWriter, "Input: %s (%d pairs)\n", c.String("input"), len(pairs))
	if completed > 0 {
		fmt.Fprintf(c.App.ErrWriter, "Resuming job %q after %d pairs\n", job, completed)
	}

	summary, err := runner.Run(ctx, job, pairs, out)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(c.App.ErrWriter, "\nInterrupted after %d pairs\n", summary.Skipped+summary.Aligned)
		}
		return fmt.Errorf("batch alignment failed: %w", err)
	}

	fmt.Fprintf(c.App.ErrWriter, "Aligned %d pairs (%d failed, %d skipped) in %v\n",
		summary.Aligned, summary.Failed, summary.Skipped, summary.Elapsed.Round(time.Millisecond))
	return nil
}

// openOutput opens the output named by --output. Resumed jobs append.
func openOutput(c *cli.Context, resume bool) (io.Writer, func(), error) {
	path := c.String("output")
	if path == "" || path == "-" {
		return c.App.Writer, func() {}, nil
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if resume {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			slog.Error("error closing output", "path", path, "err", err)
		}
	}, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
