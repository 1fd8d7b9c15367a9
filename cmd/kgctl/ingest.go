package main

import (
	"context"

	"github.com/spf13/cobra"

	"scholargraph/internal/graphstore"
	"scholargraph/internal/ingest"
	"scholargraph/internal/scopus"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.json> [file.json ...]",
	Short: "Load Scopus export files into the graph",
	Long: `Load one or more Scopus JSON exports into the graph. Files are
processed in order; the merge semantics make re-running a file safe.

Example:
  kgctl ingest exports/scopus_2024.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, store, logger, err := newStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(ctx) }()

	if err := graphstore.EnsureSchema(ctx, store, logger); err != nil {
		return err
	}
	retry := graphstore.RetryPolicy{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay()}
	writer := graphstore.NewWriter(store, retry, cfg.BatchSize, cfg.CoAuthorBatchSize, logger)
	pipeline := ingest.NewPipeline(scopus.NewNormalizer(cfg.Institutions), writer, logger)

	type fileResult struct {
		Path  string `json:"path"`
		Error string `json:"error,omitempty"`
		Stats any    `json:"stats,omitempty"`
	}
	results := make([]fileResult, 0, len(args))
	for _, path := range args {
		stats, err := pipeline.IngestFile(ctx, path)
		if err != nil {
			results = append(results, fileResult{Path: path, Error: err.Error()})
			continue
		}
		results = append(results, fileResult{Path: path, Stats: stats})
	}
	outputJSON(map[string]any{"files": results})
	return nil
}
