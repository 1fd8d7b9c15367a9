package activities

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"scholargraph/internal/config"
	"scholargraph/internal/graphstore"
	"scholargraph/internal/ingest"
	"scholargraph/internal/models"
	"scholargraph/internal/scopus"
	"scholargraph/internal/storage"
)

type Activities struct {
	cfg      config.Config
	store    *graphstore.Store
	pipeline *ingest.Pipeline
	runRepo  *storage.RunRepo
	log      *zap.Logger
}

func New(cfg config.Config, store *graphstore.Store, db *storage.DB, log *zap.Logger) *Activities {
	retry := graphstore.RetryPolicy{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay(),
	}
	writer := graphstore.NewWriter(store, retry, cfg.BatchSize, cfg.CoAuthorBatchSize, log)
	norm := scopus.NewNormalizer(cfg.Institutions)
	return &Activities{
		cfg:      cfg,
		store:    store,
		pipeline: ingest.NewPipeline(norm, writer, log),
		runRepo:  storage.NewRunRepo(db),
		log:      log,
	}
}

// ListFilesActivity enumerates the JSON exports under a directory,
// sorted for a deterministic ingestion order.
func (a *Activities) ListFilesActivity(ctx context.Context, in ListFilesInput) (ListFilesOutput, error) {
	_ = ctx
	entries, err := os.ReadDir(in.InputDir)
	if err != nil {
		return ListFilesOutput{}, fmt.Errorf("read input dir: %w", err)
	}
	paths := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(in.InputDir, e.Name()))
	}
	sort.Strings(paths)
	return ListFilesOutput{Paths: paths}, nil
}

func (a *Activities) EnsureGraphSchemaActivity(ctx context.Context) error {
	return graphstore.EnsureSchema(ctx, a.store, a.log)
}

// IngestFileActivity loads one Scopus export into the graph. Safe to
// retry: the merge queries make replays converge on the same state.
func (a *Activities) IngestFileActivity(ctx context.Context, in IngestFileInput) (IngestFileOutput, error) {
	stats, err := a.pipeline.IngestFile(ctx, in.Path)
	if err != nil {
		return IngestFileOutput{}, err
	}
	return IngestFileOutput{Stats: stats}, nil
}

func (a *Activities) RecordRunActivity(ctx context.Context, in RecordRunInput) error {
	return a.runRepo.UpsertRun(ctx, models.IngestRun{
		RunID:      in.RunID,
		Status:     in.Status,
		Files:      in.Files,
		Stats:      in.Stats,
		LastError:  in.LastError,
		StartedAt:  in.StartedAt,
		FinishedAt: in.FinishedAt,
	})
}

func (a *Activities) ClearGraphActivity(ctx context.Context, in ClearGraphInput) (ClearGraphOutput, error) {
	batch := in.BatchSize
	if batch <= 0 {
		batch = a.cfg.BatchSize
	}
	deleted, err := graphstore.Clear(ctx, a.store, batch, a.log)
	if err != nil {
		return ClearGraphOutput{}, err
	}
	return ClearGraphOutput{Deleted: deleted}, nil
}

func (a *Activities) GraphStatsActivity(ctx context.Context) (GraphStatsOutput, error) {
	return GraphStatsOutput{Stats: graphstore.Stats(ctx, a.store)}, nil
}
