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
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/poiesic/ensemble"
	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/oracle"
	"github.com/poiesic/ensemble/oracle/mock"
	"github.com/poiesic/ensemble/oracle/openai"
	"github.com/poiesic/ensemble/search"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "ensemble",
		Usage:     "Search for high-scoring logical combinations of components",
		Writer:    out,
		ErrWriter: os.Stderr,
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
				Name:      "search",
				Usage:     "Run a tiered search and print the best ensembles",
				ArgsUsage: "NAME...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "YAML run file with names, operators and judge settings",
					},
					&cli.StringFlag{
						Name:  "ops",
						Usage: "Comma separated operators by symbol or name (&, |, ^, ~)",
						Value: "&,|,^",
					},
					&cli.IntFlag{
						Name:  "max-order",
						Usage: "Largest ensemble size (0 means the number of names)",
					},
					&cli.Float64Flag{
						Name:  "min-increase",
						Usage: "Margin a combination must beat its operands by",
					},
					&cli.BoolFlag{
						Name:  "allow-overlap",
						Usage: "Allow a component to appear more than once in an ensemble",
					},
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"n"},
						Usage:   "Number of results to print (0 means all)",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "multiway",
						Usage: "Also merge three or more ensembles under associative operators",
					},
					&cli.StringFlag{
						Name:  "scorer",
						Usage: "Scoring oracle (leaves, random, judge)",
						Value: "leaves",
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Seed for the random scorer",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent scoring workers (0 means half the CPUs)",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory for checkpoints",
					},
					&cli.BoolFlag{
						Name:  "memoize",
						Usage: "Reuse scores stored in the database (requires --db)",
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Continue from checkpoints of an identical earlier run (requires --db)",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report per-tier progress on stderr",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N candidates",
						Value: 100,
					},
					&cli.StringFlag{
						Name:  "judge-host",
						Usage: "Judge service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "judge-model",
						Usage: "Judge model name",
					},
					&cli.StringFlag{
						Name:  "criteria",
						Usage: "Task the judge rates ensembles on",
					},
					&cli.StringSliceFlag{
						Name:  "describe",
						Usage: "Component description for the judge as name=description (repeatable)",
					},
				},
			},
			{
				Name:      "canon",
				Usage:     "Print the canonical form of each expression",
				ArgsUsage: "EXPR...",
				Action:    canonCommand,
			},
		},
	}
}

func searchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rf, err := loadRunFile(c.String("config"))
	if err != nil {
		return err
	}
	cfg, err := searchConfig(c, rf)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dbPath := c.String("db")
	if dbPath == "" && (c.Bool("memoize") || c.Bool("resume")) {
		return fmt.Errorf("--memoize and --resume require --db")
	}

	judgeConfig, err := buildJudgeConfig(c, judgeOptions(c, rf.Judge)...)
	if err != nil {
		return err
	}

	var opts []search.Option
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, search.WithPoolSize(size))
	}

	var searcher *search.Searcher
	if dbPath != "" {
		db, err := ensemble.NewDatabase(dbPath,
			ensemble.WithJudgeConfig(judgeConfig),
			ensemble.WithScoreMemoization(c.Bool("memoize")))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		scorer, err := buildScorer(c, judgeConfig)
		if err != nil {
			return err
		}
		searcher, err = db.NewSearcher(scorer, opts...)
		if err != nil {
			return err
		}
	} else {
		scorer, err := buildScorer(c, judgeConfig)
		if err != nil {
			return err
		}
		searcher, err = search.NewSearcher(scorer, opts...)
		if err != nil {
			return err
		}
	}
	defer searcher.Release()

	var monitor search.SearchMonitor
	if c.Bool("progress") {
		monitor = search.NewProgressMonitor(c.App.ErrWriter, c.Int("report-interval"))
	}

	result, err := searcher.SearchWithMonitor(ctx, cfg, monitor)
	if result != nil {
		for _, entry := range result.Ranking() {
			fmt.Fprintln(c.App.Writer, entry.String())
		}
	}
	if err != nil {
		return fmt.Errorf("search stopped: %w", err)
	}
	return nil
}

func buildScorer(c *cli.Context, judgeConfig *oracle.Config) (oracle.Scorer, error) {
	switch strings.ToLower(c.String("scorer")) {
	case "leaves":
		return mock.LeafCountScorer{}, nil
	case "random":
		return mock.NewRandomScorer(c.Int64("seed")), nil
	case "judge":
		judge, err := openai.NewJudge(judgeConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create judge: %w", err)
		}
		return judge, nil
	}
	return nil, fmt.Errorf("invalid scorer %q: must be one of leaves, random, judge", c.String("scorer"))
}

func buildJudgeConfig(c *cli.Context, fileOpts ...oracle.ConfigOption) (*oracle.Config, error) {
	opts := []oracle.ConfigOption{oracle.WithHost(c.String("judge-host"))}
	opts = append(opts, fileOpts...)
	if model := c.String("judge-model"); model != "" {
		opts = append(opts, oracle.WithModel(model))
	}
	if criteria := c.String("criteria"); criteria != "" {
		opts = append(opts, oracle.WithCriteria(criteria))
	}
	for _, desc := range c.StringSlice("describe") {
		name, text, ok := strings.Cut(desc, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid description %q: must be name=description", desc)
		}
		opts = append(opts, oracle.WithComponent(name, text))
	}

	cfg := oracle.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid judge configuration: %w", err)
	}
	return cfg, nil
}

func canonCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one expression is required")
	}
	for _, text := range c.Args().Slice() {
		e, err := core.Parse(text)
		if err != nil {
			return err
		}
		key, err := core.Key(e)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, key)
	}
	return nil
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
