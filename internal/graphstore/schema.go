package graphstore

import (
	"context"

	"go.uber.org/zap"

	"scholargraph/internal/models"
)

var schemaConstraints = []string{
	"CREATE CONSTRAINT document_id IF NOT EXISTS FOR (d:Document) REQUIRE d.document_id IS UNIQUE",
	"CREATE CONSTRAINT author_id IF NOT EXISTS FOR (a:Author) REQUIRE a.author_id IS UNIQUE",
	"CREATE CONSTRAINT affiliation_id IF NOT EXISTS FOR (af:Affiliation) REQUIRE af.affiliation_id IS UNIQUE",
	"CREATE CONSTRAINT publication_id IF NOT EXISTS FOR (p:Publication) REQUIRE p.publication_id IS UNIQUE",
}

// EnsureSchema declares the identity uniqueness constraints. Each
// statement is tolerated individually so a partially managed database
// does not block ingestion.
func EnsureSchema(ctx context.Context, exec Executor, log *zap.Logger) error {
	for _, stmt := range schemaConstraints {
		if _, err := exec.Execute(ctx, stmt, nil); err != nil {
			if log != nil {
				log.Warn("constraint creation failed", zap.String("constraint", stmt), zap.Error(err))
			}
		}
	}
	return ctx.Err()
}

var statLabels = []struct {
	label string
	apply func(*models.StoreStats, int64)
}{
	{"Document", func(s *models.StoreStats, n int64) { s.Documents = n }},
	{"Author", func(s *models.StoreStats, n int64) { s.Authors = n }},
	{"Affiliation", func(s *models.StoreStats, n int64) { s.Affiliations = n }},
	{"Publication", func(s *models.StoreStats, n int64) { s.Publications = n }},
}

// Stats reports node counts per label plus the grand total. Individual
// count failures degrade to zero.
func Stats(ctx context.Context, exec Executor) models.StoreStats {
	var stats models.StoreStats
	for _, l := range statLabels {
		rows, err := exec.Execute(ctx, "MATCH (n:"+l.label+") RETURN COUNT(n) AS count", nil)
		if err == nil {
			l.apply(&stats, countFromValue(rows, "count"))
		}
	}
	rows, err := exec.Execute(ctx, "MATCH (n) RETURN COUNT(n) AS count", nil)
	if err == nil {
		stats.TotalNodes = countFromValue(rows, "count")
	}
	return stats
}
