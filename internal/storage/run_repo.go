package storage

import (
	"context"
	"fmt"
	"sync"

	"scholargraph/internal/models"
)

// RunRepo persists ingestion run bookkeeping so operators can audit
// which files were loaded, when, and with what outcome. The graph
// itself lives in Neo4j; this table is the relational sidecar.
type RunRepo struct {
	db *DB

	schemaMu       sync.Mutex
	schemaPrepared bool
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) ensureSchema(ctx context.Context) error {
	r.schemaMu.Lock()
	defer r.schemaMu.Unlock()

	if r.schemaPrepared {
		return nil
	}

	// Keep the table self-provisioning so a fresh deployment needs no
	// separate migration step.
	ddl := `
CREATE TABLE IF NOT EXISTS ingest_runs (
  run_id UUID PRIMARY KEY,
  status TEXT NOT NULL CHECK (status IN ('running','completed','failed','partial')),
  files TEXT[] NOT NULL DEFAULT '{}',
  records_read INT NOT NULL DEFAULT 0,
  matched INT NOT NULL DEFAULT 0,
  dropped INT NOT NULL DEFAULT 0,
  documents INT NOT NULL DEFAULT 0,
  authors INT NOT NULL DEFAULT 0,
  affiliations INT NOT NULL DEFAULT 0,
  publications INT NOT NULL DEFAULT 0,
  last_error TEXT,
  started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_ingest_runs_started ON ingest_runs(started_at DESC);
`
	if _, err := r.db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure ingest_runs schema: %w", err)
	}
	r.schemaPrepared = true
	return nil
}

func (r *RunRepo) UpsertRun(ctx context.Context, run models.IngestRun) error {
	if err := r.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO ingest_runs (run_id, status, files, records_read, matched, dropped,
                         documents, authors, affiliations, publications,
                         last_error, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11,''), $12, $13)
ON CONFLICT (run_id)
DO UPDATE SET
  status = EXCLUDED.status,
  files = EXCLUDED.files,
  records_read = EXCLUDED.records_read,
  matched = EXCLUDED.matched,
  dropped = EXCLUDED.dropped,
  documents = EXCLUDED.documents,
  authors = EXCLUDED.authors,
  affiliations = EXCLUDED.affiliations,
  publications = EXCLUDED.publications,
  last_error = EXCLUDED.last_error,
  finished_at = EXCLUDED.finished_at`,
		run.RunID, run.Status, run.Files,
		run.Stats.RecordsRead, run.Stats.Matched, run.Stats.Dropped,
		run.Stats.Documents, run.Stats.Authors, run.Stats.Affiliations, run.Stats.Publications,
		run.LastError, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert ingest run: %w", err)
	}
	return nil
}

func (r *RunRepo) ListRuns(ctx context.Context, limit int) ([]models.IngestRun, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT run_id::text, status, files, records_read, matched, dropped,
       documents, authors, affiliations, publications,
       COALESCE(last_error,''), started_at, finished_at
FROM ingest_runs
ORDER BY started_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingest runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.IngestRun, 0)
	for rows.Next() {
		var run models.IngestRun
		if err := rows.Scan(&run.RunID, &run.Status, &run.Files,
			&run.Stats.RecordsRead, &run.Stats.Matched, &run.Stats.Dropped,
			&run.Stats.Documents, &run.Stats.Authors, &run.Stats.Affiliations, &run.Stats.Publications,
			&run.LastError, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan ingest run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingest runs: %w", err)
	}
	return out, nil
}

func (r *RunRepo) GetRun(ctx context.Context, runID string) (models.IngestRun, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return models.IngestRun{}, err
	}
	var run models.IngestRun
	err := r.db.Pool.QueryRow(ctx, `
SELECT run_id::text, status, files, records_read, matched, dropped,
       documents, authors, affiliations, publications,
       COALESCE(last_error,''), started_at, finished_at
FROM ingest_runs
WHERE run_id=$1`, runID).
		Scan(&run.RunID, &run.Status, &run.Files,
			&run.Stats.RecordsRead, &run.Stats.Matched, &run.Stats.Dropped,
			&run.Stats.Documents, &run.Stats.Authors, &run.Stats.Affiliations, &run.Stats.Publications,
			&run.LastError, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		return models.IngestRun{}, fmt.Errorf("get ingest run: %w", err)
	}
	return run, nil
}
