package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scholargraph/internal/analytics"
	"scholargraph/internal/config"
	"scholargraph/internal/models"
	"scholargraph/internal/search"
)

var (
	papersFile    string
	analyticQuery string
	minPapers     int
	topK          int
	yearsBack     int
)

func init() {
	for _, cmd := range []*cobra.Command{networkCmd, trendsCmd} {
		cmd.Flags().StringVar(&papersFile, "papers", "", "Read paper records from a JSON file instead of the search service")
		cmd.Flags().StringVar(&analyticQuery, "query", "", "Search query for the retrieval service")
	}
	networkCmd.Flags().IntVar(&minPapers, "min-papers", 0, "Minimum papers for an author to count as active")
	networkCmd.Flags().IntVar(&topK, "top-k", 5, "Entries per centrality ranking")
	trendsCmd.Flags().IntVar(&yearsBack, "years-back", 0, "Analysis window in years")
	rootCmd.AddCommand(networkCmd, trendsCmd)
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Analyze the collaboration network",
	Long: `Build the co-authorship graph from a paper result set and report
centrality rankings, communities and basic graph measures.

Example:
  kgctl network --papers results.json --min-papers 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		records, err := loadRecords(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		min := minPapers
		if min <= 0 {
			min = cfg.MinPapers
		}
		graph := analytics.BuildCollaborationGraph(records, cfg.Institutions, min)
		outputJSON(analytics.AnalyzeNetwork(graph, topK))
		return nil
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Analyze research trends over time",
	Long: `Aggregate a paper result set by year and report paper and citation
trends plus emerging keywords.

Example:
  kgctl trends --papers results.json --years-back 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		records, err := loadRecords(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		years := yearsBack
		if years <= 0 {
			years = cfg.YearsBack
		}
		outputJSON(analytics.AnalyzeTrends(records, cfg.Institutions, years, time.Now(), nil))
		return nil
	},
}

func loadRecords(ctx context.Context, cfg config.Config) ([]models.PaperRecord, error) {
	if papersFile != "" {
		data, err := os.ReadFile(papersFile)
		if err != nil {
			return nil, fmt.Errorf("read papers file: %w", err)
		}
		var records []models.PaperRecord
		if err := json.Unmarshal(data, &records); err != nil {
			var wrapped struct {
				Results []models.PaperRecord `json:"results"`
			}
			if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
				return nil, fmt.Errorf("decode papers file: %w", err)
			}
			records = wrapped.Results
		}
		return records, nil
	}
	if analyticQuery == "" {
		return nil, fmt.Errorf("either --papers or --query is required")
	}
	if cfg.SearchAPIBase == "" {
		return nil, fmt.Errorf("SCHOLARGRAPH_SEARCH_API_BASE is not set")
	}
	return search.NewHTTPSearcher(cfg.SearchAPIBase).Search(ctx, analyticQuery, cfg.SearchTopK)
}
