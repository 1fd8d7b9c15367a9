// Package main provides the kgctl CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scholargraph/internal/config"
	"scholargraph/internal/graphstore"
)

func main() {
	_ = godotenv.Load(".env")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kgctl",
	Short: "Operate the bibliographic knowledge graph",
	Long: `kgctl loads Scopus exports into the knowledge graph and runs
collaboration and trend analytics against it, without going through
the API server. All commands output JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// newStore connects to Neo4j with the environment configuration.
// The caller closes the store.
func newStore(ctx context.Context) (config.Config, *graphstore.Store, *zap.Logger, error) {
	cfg := config.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	store, err := graphstore.New(connectCtx, cfg, logger)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, store, logger, nil
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}
