package search

import (
	"context"
	"sort"
	"strings"

	"scholargraph/internal/models"
)

// StaticSearcher serves from a fixed in-memory result set. Used in
// tests and for offline analytics over a pre-exported corpus.
type StaticSearcher struct {
	records []models.PaperRecord
}

func NewStaticSearcher(records []models.PaperRecord) *StaticSearcher {
	return &StaticSearcher{records: records}
}

// Search ranks records by naive term overlap with the query and
// returns the top k. An empty query returns the first k records.
func (s *StaticSearcher) Search(_ context.Context, query string, k int) ([]models.PaperRecord, error) {
	if k <= 0 || k > len(s.records) {
		k = len(s.records)
	}
	terms := strings.Fields(strings.ToLower(query))
	type scored struct {
		rec   models.PaperRecord
		score int
		pos   int
	}
	ranked := make([]scored, 0, len(s.records))
	for i, rec := range s.records {
		title := strings.ToLower(rec.Title)
		score := 0
		for _, t := range terms {
			if strings.Contains(title, t) {
				score++
			}
		}
		ranked = append(ranked, scored{rec: rec, score: score, pos: i})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].pos < ranked[j].pos
	})
	out := make([]models.PaperRecord, 0, k)
	for _, r := range ranked[:k] {
		out = append(out, r.rec)
	}
	return out, nil
}
