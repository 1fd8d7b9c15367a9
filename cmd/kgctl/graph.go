package main

import (
	"context"

	"github.com/spf13/cobra"

	"scholargraph/internal/graphstore"
)

func init() {
	rootCmd.AddCommand(statsCmd, clearCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node counts per label",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		_, store, _, err := newStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()
		outputJSON(graphstore.Stats(ctx, store))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all graph data and constraints",
	Long: `Delete every node, relationship and constraint from the graph.
Deletion runs in batches, shrinking the batch when the server reports
memory pressure.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, store, logger, err := newStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()
		deleted, err := graphstore.Clear(ctx, store, cfg.BatchSize, logger)
		if err != nil {
			return err
		}
		outputJSON(map[string]any{"deleted": deleted})
		return nil
	},
}
