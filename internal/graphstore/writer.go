package graphstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"scholargraph/internal/ingest"
	"scholargraph/internal/models"
)

// Node upserts are plain merge-by-identity with last-write-wins
// attributes, so replays are no-ops.
const (
	MergeDocumentsCypher = `
UNWIND $documents AS doc
MERGE (d:Document {document_id: doc.document_id})
SET d.title = doc.title, d.abstract = doc.abstract,
    d.year = doc.year, d.citation_count = doc.citation_count,
    d.doi = doc.doi, d.scopus_id = doc.scopus_id`

	MergeAuthorsCypher = `
UNWIND $authors AS author
MERGE (a:Author {author_id: author.author_id})
SET a.full_name = author.full_name, a.orcid = author.orcid`

	MergeAffiliationsCypher = `
UNWIND $affiliations AS affil
MERGE (af:Affiliation {affiliation_id: affil.affiliation_id})
SET af.name = affil.name, af.city = affil.city, af.country = affil.country`

	MergePublicationsCypher = `
UNWIND $publications AS pub
MERGE (p:Publication {publication_id: pub.publication_id})
SET p.name = pub.name, p.issn = pub.issn, p.publisher = pub.publisher`

	MergeAuthorOfCypher = `
UNWIND $rels AS rel
MATCH (a:Author {author_id: rel.author_id})
MATCH (d:Document {document_id: rel.document_id})
MERGE (a)-[:AUTHOR_OF]->(d)`

	MergeAffiliatedWithCypher = `
UNWIND $rels AS rel
MATCH (a:Author {author_id: rel.author_id})
MATCH (af:Affiliation {affiliation_id: rel.affiliation_id})
MERGE (a)-[:AFFILIATED_WITH]->(af)`

	MergePublishedInCypher = `
UNWIND $rels AS rel
MATCH (d:Document {document_id: rel.document_id})
MATCH (p:Publication {publication_id: rel.publication_id})
MERGE (d)-[:PUBLISHED_IN]->(p)`

	// CO_AUTHOR weight accumulates additively: the edge remembers which
	// documents already contributed, so replaying an overlapping batch
	// only adds documents the edge has not seen.
	MergeCoAuthorsCypher = `
UNWIND $rels AS rel
MATCH (a1:Author {author_id: rel.author1_id})
MATCH (a2:Author {author_id: rel.author2_id})
MERGE (a1)-[co:CO_AUTHOR]-(a2)
ON CREATE SET co.collaboration_count = 0, co.documents = []
WITH co, [d IN rel.document_ids WHERE NOT d IN co.documents] AS fresh
SET co.collaboration_count = co.collaboration_count + size(fresh),
    co.documents = co.documents + fresh`
)

// Writer persists deduplicated batches with merge-by-identity
// semantics. Node kinds are written before relationship kinds so
// relationship merges can assume their endpoints exist.
type Writer struct {
	exec              Executor
	retry             RetryPolicy
	batchSize         int
	coAuthorBatchSize int
	log               *zap.Logger
}

func NewWriter(exec Executor, retry RetryPolicy, batchSize, coAuthorBatchSize int, log *zap.Logger) *Writer {
	if batchSize <= 0 {
		batchSize = 1000
	}
	if coAuthorBatchSize <= 0 {
		coAuthorBatchSize = 500
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{exec: exec, retry: retry, batchSize: batchSize, coAuthorBatchSize: coAuthorBatchSize, log: log}
}

func (w *Writer) WriteBatch(ctx context.Context, batch ingest.Batch) error {
	steps := []struct {
		name      string
		query     string
		param     string
		rows      []map[string]any
		batchSize int
	}{
		{"documents", MergeDocumentsCypher, "documents", documentRows(batch.Documents), w.batchSize},
		{"authors", MergeAuthorsCypher, "authors", authorRows(batch.Authors), w.batchSize},
		{"affiliations", MergeAffiliationsCypher, "affiliations", affiliationRows(batch.Affiliations), w.batchSize},
		{"publications", MergePublicationsCypher, "publications", publicationRows(batch.Publications), w.batchSize},
		{"author_of", MergeAuthorOfCypher, "rels", authorOfRows(batch.AuthorOf), w.batchSize},
		{"affiliated_with", MergeAffiliatedWithCypher, "rels", affiliatedWithRows(batch.AffiliatedWith), w.batchSize},
		{"published_in", MergePublishedInCypher, "rels", publishedInRows(batch.PublishedIn), w.batchSize},
		{"co_author", MergeCoAuthorsCypher, "rels", coAuthorRows(batch.CoAuthorships), w.coAuthorBatchSize},
	}

	for _, step := range steps {
		for start := 0; start < len(step.rows); start += step.batchSize {
			end := start + step.batchSize
			if end > len(step.rows) {
				end = len(step.rows)
			}
			chunk := step.rows[start:end]
			err := w.retry.Do(ctx, func(ctx context.Context) error {
				_, execErr := w.exec.Execute(ctx, step.query, map[string]any{step.param: chunk})
				return execErr
			})
			if err != nil {
				return fmt.Errorf("merge %s batch [%d:%d]: %w", step.name, start, end, err)
			}
			w.log.Debug("merged batch", zap.String("kind", step.name), zap.Int("size", len(chunk)))
		}
	}
	return nil
}

func documentRows(docs []models.Document) []map[string]any {
	rows := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		var year any
		if d.Year != nil {
			year = *d.Year
		}
		rows = append(rows, map[string]any{
			"document_id":    d.DocumentID,
			"title":          d.Title,
			"abstract":       d.Abstract,
			"year":           year,
			"citation_count": d.CitationCount,
			"doi":            d.DOI,
			"scopus_id":      d.ScopusID,
		})
	}
	return rows
}

func authorRows(authors []models.Author) []map[string]any {
	rows := make([]map[string]any, 0, len(authors))
	for _, a := range authors {
		rows = append(rows, map[string]any{
			"author_id": a.AuthorID,
			"full_name": a.FullName,
			"orcid":     a.ORCID,
		})
	}
	return rows
}

func affiliationRows(affils []models.Affiliation) []map[string]any {
	rows := make([]map[string]any, 0, len(affils))
	for _, a := range affils {
		rows = append(rows, map[string]any{
			"affiliation_id": a.AffiliationID,
			"name":           a.Name,
			"city":           a.City,
			"country":        a.Country,
		})
	}
	return rows
}

func publicationRows(pubs []models.Publication) []map[string]any {
	rows := make([]map[string]any, 0, len(pubs))
	for _, p := range pubs {
		rows = append(rows, map[string]any{
			"publication_id": p.PublicationID,
			"name":           p.Name,
			"issn":           p.ISSN,
			"publisher":      p.Publisher,
		})
	}
	return rows
}

func authorOfRows(rels []models.AuthorOf) []map[string]any {
	rows := make([]map[string]any, 0, len(rels))
	for _, r := range rels {
		rows = append(rows, map[string]any{"author_id": r.AuthorID, "document_id": r.DocumentID})
	}
	return rows
}

func affiliatedWithRows(rels []models.AffiliatedWith) []map[string]any {
	rows := make([]map[string]any, 0, len(rels))
	for _, r := range rels {
		rows = append(rows, map[string]any{"author_id": r.AuthorID, "affiliation_id": r.AffiliationID})
	}
	return rows
}

func publishedInRows(rels []models.PublishedIn) []map[string]any {
	rows := make([]map[string]any, 0, len(rels))
	for _, r := range rels {
		rows = append(rows, map[string]any{"document_id": r.DocumentID, "publication_id": r.PublicationID})
	}
	return rows
}

func coAuthorRows(rels []models.CoAuthorship) []map[string]any {
	rows := make([]map[string]any, 0, len(rels))
	for _, r := range rels {
		rows = append(rows, map[string]any{
			"author1_id":   r.Author1ID,
			"author2_id":   r.Author2ID,
			"count":        r.Count,
			"document_ids": r.DocumentIDs,
		})
	}
	return rows
}
