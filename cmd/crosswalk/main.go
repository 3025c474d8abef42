// Copyright 2025 Medterm Labs
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
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/medterm/crosswalk"
	"github.com/medterm/crosswalk/ai"
	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/icd"
	"github.com/medterm/crosswalk/indexer"
	"github.com/medterm/crosswalk/resolve"
)

func main() {
	app := &cli.App{
		Name:  "crosswalk",
		Usage: "Resolve medical terms between the NAMC vocabularies and ICD-11",
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
				Name:      "index",
				Usage:     "Build the embedding index over the vocabulary",
				Action:    indexCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "all-minilm",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of concepts to embed in each batch",
						Value: indexer.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: indexer.DefaultMaxRetries,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: time.Second,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Rebuild even if the index is already populated",
					},
				),
			},
			{
				Name:      "resolve",
				Usage:     "Interactively resolve a term to a dual-coded mapping",
				ArgsUsage: "<query>",
				Action:    resolveCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "from",
						Usage: "Side the query names: local (NAMC code/term) or remote (English term)",
						Value: "local",
					},
					&cli.StringFlag{
						Name:    "client-id",
						Usage:   "ICD API client id",
						EnvVars: []string{"ICD_CLIENT_ID"},
					},
					&cli.StringFlag{
						Name:    "client-secret",
						Usage:   "ICD API client secret",
						EnvVars: []string{"ICD_CLIENT_SECRET"},
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "all-minilm",
					},
					&cli.BoolFlag{
						Name:  "no-semantic",
						Usage: "Disable embedding-based candidates",
					},
				),
			},
			{
				Name:      "suggest",
				Usage:     "Print ranked local candidates for a query",
				ArgsUsage: "<query>",
				Action:    suggestCommand,
				Flags:     commonFlags(),
			},
			{
				Name:   "translate",
				Usage:  "Print recorded remote targets for a local code",
				Action: translateCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "system",
						Usage:    "Local sub-vocabulary (Ayurveda, Siddha, Unani)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "code",
						Usage:    "Local concept code",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "target",
						Usage: "Target system URI filter",
						Value: core.RemoteSystemURI,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "data",
			Usage: "Directory holding the vocabulary JSON files",
			Value: "Data",
		},
	}
}

func newEngine(c *cli.Context) (*crosswalk.Engine, error) {
	var configOpts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	aiConfig := ai.NewConfig(configOpts...)
	return crosswalk.NewEngine(c.String("data"), c.String("db"), crosswalk.WithAIConfig(aiConfig))
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := newEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	ix, err := engine.NewIndexer(
		indexer.WithBatchSize(c.Int("batch-size")),
		indexer.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		indexer.WithProgressWriter(os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer ix.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Vocabulary: %s (%d concepts)\n", c.String("data"), engine.Vocabulary().Len())
	fmt.Fprintln(os.Stderr)

	indexed, err := ix.Build(ctx, c.Bool("force"))
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	if indexed == 0 {
		fmt.Fprintln(os.Stderr, "Index already populated; use --force to rebuild.")
	}
	return nil
}

func resolveCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query argument is required")
	}

	direction, err := parseDirection(c.String("from"))
	if err != nil {
		return err
	}

	engine, err := newEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	gatewayCfg := icd.DefaultConfig()
	gatewayCfg.ClientID = c.String("client-id")
	gatewayCfg.ClientSecret = c.String("client-secret")

	var opts []resolve.Option
	if c.Bool("no-semantic") {
		opts = append(opts, resolve.WithSemanticMatcher(nil))
	}

	resolver, err := engine.NewResolver(gatewayCfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create resolver: %w", err)
	}

	selector := newPromptSelector(os.Stdin, os.Stdout)
	outcome, err := resolver.Run(ctx, query, direction, selector)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	switch outcome.Status {
	case resolve.StatusResolved:
		fmt.Printf("\nMapping recorded: %s %s -> ", outcome.Mapping.System, outcome.Mapping.Code)
		for i, target := range outcome.Mapping.Targets {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("%s (%s)", target.Code, target.Display)
		}
		fmt.Printf("\nRecord id: %d\n", outcome.Record.ID)
	case resolve.StatusNoMatches:
		fmt.Println("\nNo matches.")
	case resolve.StatusCancelled:
		fmt.Println("\nCancelled.")
	}
	return nil
}

func suggestCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query argument is required")
	}

	engine, err := newEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	candidates, err := engine.Suggest(query)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for i, candidate := range candidates {
		fmt.Printf("%d) %s (score %.1f)\n", i+1, candidate.Label, candidate.Score)
	}
	return nil
}

func translateCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := newEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	targets, err := engine.Translate(ctx, c.String("system"), c.String("code"), c.String("target"))
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Println("No mapping recorded.")
		return nil
	}

	for _, target := range targets {
		fmt.Printf("%s\t%s\t%s\n", target.Code, target.Display, target.System)
	}
	return nil
}

func parseDirection(from string) (resolve.Direction, error) {
	switch strings.ToLower(from) {
	case "local", "namc":
		return resolve.LocalToRemote, nil
	case "remote", "icd", "icd11":
		return resolve.RemoteToLocal, nil
	default:
		return 0, fmt.Errorf("invalid --from value %q: must be local or remote", from)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
