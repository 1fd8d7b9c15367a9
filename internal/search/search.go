package search

import (
	"context"

	"scholargraph/internal/models"
)

// Searcher retrieves paper records for an analytics query. The graph
// analytics only need titles, authors, years, citations and the main
// affiliation, so the result shape deliberately stays small.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.PaperRecord, error)
}
