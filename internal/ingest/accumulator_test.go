package ingest

import (
	"fmt"
	"testing"

	"scholargraph/internal/models"
)

func doc(id string) models.Document {
	return models.Document{DocumentID: id, Title: "t-" + id}
}

func TestAccumulatorDeduplicatesAuthors(t *testing.T) {
	acc := NewAccumulator()
	author := models.Author{AuthorID: "a1", FullName: "Smith J."}
	for i := 0; i < 5; i++ {
		acc.Add(doc(fmt.Sprintf("d%d", i)), []models.Author{author}, nil, nil)
	}
	batch := acc.Finalize()
	if len(batch.Authors) != 1 {
		t.Fatalf("expected 1 author, got %d", len(batch.Authors))
	}
	if len(batch.AuthorOf) != 5 {
		t.Fatalf("expected 5 AUTHOR_OF rows, got %d", len(batch.AuthorOf))
	}
	if len(batch.Documents) != 5 {
		t.Fatalf("expected 5 documents, got %d", len(batch.Documents))
	}
}

func TestAccumulatorCoAuthorPairs(t *testing.T) {
	acc := NewAccumulator()
	authors := []models.Author{{AuthorID: "a1"}, {AuthorID: "a2"}, {AuthorID: "a3"}}
	acc.Add(doc("d1"), authors, nil, nil)
	batch := acc.Finalize()
	// C(3,2) unordered pairs, each contributed by one document.
	if len(batch.CoAuthorships) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(batch.CoAuthorships))
	}
	for _, co := range batch.CoAuthorships {
		if co.Count != 1 || len(co.DocumentIDs) != 1 {
			t.Fatalf("unexpected pair aggregation: %+v", co)
		}
		if co.Author1ID >= co.Author2ID {
			t.Fatalf("pair key not order-independent: %+v", co)
		}
	}
}

func TestAccumulatorCoAuthorWeightAcrossDocuments(t *testing.T) {
	acc := NewAccumulator()
	pair := []models.Author{{AuthorID: "b"}, {AuthorID: "a"}}
	acc.Add(doc("d1"), pair, nil, nil)
	acc.Add(doc("d2"), []models.Author{{AuthorID: "a"}, {AuthorID: "b"}}, nil, nil)
	acc.Add(doc("d3"), pair, nil, nil)
	// Re-adding an already seen document contributes nothing new.
	acc.Add(doc("d3"), pair, nil, nil)

	batch := acc.Finalize()
	if len(batch.CoAuthorships) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(batch.CoAuthorships))
	}
	co := batch.CoAuthorships[0]
	if co.Author1ID != "a" || co.Author2ID != "b" {
		t.Fatalf("pair ordering: %+v", co)
	}
	if co.Count != 3 || len(co.DocumentIDs) != 3 {
		t.Fatalf("expected collaboration count 3, got %+v", co)
	}
}

func TestAccumulatorAffiliationPairDedup(t *testing.T) {
	acc := NewAccumulator()
	authors := []models.Author{{AuthorID: "a1"}}
	affils := []models.Affiliation{{AffiliationID: "af1", Name: "UoB"}}
	acc.Add(doc("d1"), authors, affils, nil)
	acc.Add(doc("d2"), authors, affils, nil)
	batch := acc.Finalize()
	if len(batch.AffiliatedWith) != 1 {
		t.Fatalf("expected unique (author, affiliation) pair, got %d", len(batch.AffiliatedWith))
	}
	if len(batch.Affiliations) != 1 {
		t.Fatalf("expected 1 affiliation node, got %d", len(batch.Affiliations))
	}
}

func TestAccumulatorOptionalPublication(t *testing.T) {
	acc := NewAccumulator()
	pub := models.Publication{PublicationID: "1234-5678", Name: "Venue"}
	acc.Add(doc("d1"), nil, nil, &pub)
	acc.Add(doc("d2"), nil, nil, nil)
	batch := acc.Finalize()
	if len(batch.Publications) != 1 || len(batch.PublishedIn) != 1 {
		t.Fatalf("publication handling: %d pubs, %d published_in", len(batch.Publications), len(batch.PublishedIn))
	}
}
