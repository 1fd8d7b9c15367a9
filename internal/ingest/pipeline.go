package ingest

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"scholargraph/internal/models"
	"scholargraph/internal/scopus"
)

// GraphWriter persists a deduplicated batch. Implemented by
// graphstore.Writer; kept as an interface so the pipeline tests run
// without a live store.
type GraphWriter interface {
	WriteBatch(ctx context.Context, batch Batch) error
}

type Pipeline struct {
	norm   *scopus.Normalizer
	writer GraphWriter
	log    *zap.Logger
}

func NewPipeline(norm *scopus.Normalizer, writer GraphWriter, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{norm: norm, writer: writer, log: log}
}

// IngestFile runs the whole pipeline for one export file: parse,
// institution pre-filter, extraction, dedup, persisted write.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (models.IngestStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.IngestStats{}, fmt.Errorf("read %s: %w", path, err)
	}
	records, err := scopus.ParseRecords(data)
	if err != nil {
		return models.IngestStats{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return p.IngestRecords(ctx, records)
}

func (p *Pipeline) IngestRecords(ctx context.Context, records []scopus.Record) (models.IngestStats, error) {
	stats := models.IngestStats{RecordsRead: len(records)}
	acc := NewAccumulator()

	for _, rec := range records {
		// Pre-filter: non-target records must not pollute the dedup maps.
		if !p.norm.IsTargetInstitution(rec) {
			continue
		}
		stats.Matched++
		doc, ok := p.norm.ExtractDocument(rec)
		if !ok {
			stats.Dropped++
			p.log.Warn("record dropped: no resolvable document identity", zap.String("title", rec.Title))
			continue
		}
		authors := p.norm.ExtractAuthors(rec)
		affils := p.norm.ExtractAffiliations(rec)
		var pub *models.Publication
		if v, ok := p.norm.ExtractPublication(rec); ok {
			pub = &v
		}
		acc.Add(doc, authors, affils, pub)
	}

	counts := acc.Counts()
	stats.Documents = counts.Documents
	stats.Authors = counts.Authors
	stats.Affiliations = counts.Affiliations
	stats.Publications = counts.Publications

	if stats.Documents == 0 {
		p.log.Info("no target documents in input", zap.Int("records", stats.RecordsRead))
		return stats, nil
	}

	if err := p.writer.WriteBatch(ctx, acc.Finalize()); err != nil {
		return stats, fmt.Errorf("write graph batch: %w", err)
	}
	p.log.Info("ingested batch",
		zap.Int("records", stats.RecordsRead),
		zap.Int("matched", stats.Matched),
		zap.Int("documents", stats.Documents),
		zap.Int("authors", stats.Authors))
	return stats, nil
}
