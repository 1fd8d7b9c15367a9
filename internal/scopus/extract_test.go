package scopus

import (
	"encoding/json"
	"testing"
)

var fragments = []string{"University of Birmingham", "Birmingham Business School"}

func TestIsTargetInstitution(t *testing.T) {
	n := NewNormalizer(fragments)
	rec := Record{Affiliations: RawAffilList{{AfID: "60019702", Name: "university of birmingham dubai"}}}
	if !n.IsTargetInstitution(rec) {
		t.Fatal("case-insensitive substring match expected")
	}
	rec = Record{Affiliations: RawAffilList{{AfID: "1", Name: "University of Warwick"}}}
	if n.IsTargetInstitution(rec) {
		t.Fatal("non-target affiliation matched")
	}
	if n.IsTargetInstitution(Record{}) {
		t.Fatal("record without affiliations matched")
	}
}

func TestExtractDocumentIdentityFallback(t *testing.T) {
	n := NewNormalizer(fragments)

	doc, ok := n.ExtractDocument(Record{DOI: "10.1000/x", Identifier: "SCOPUS_ID:123"})
	if !ok || doc.DocumentID != "10.1000/x" {
		t.Fatalf("doi identity: %+v ok=%v", doc, ok)
	}
	if doc.ScopusID != "123" {
		t.Fatalf("scopus id not stripped: %q", doc.ScopusID)
	}

	doc, ok = n.ExtractDocument(Record{Identifier: "SCOPUS_ID:456"})
	if !ok || doc.DocumentID != "456" {
		t.Fatalf("scopus fallback identity: %+v ok=%v", doc, ok)
	}

	if _, ok = n.ExtractDocument(Record{Title: "orphan"}); ok {
		t.Fatal("record without identity must be dropped")
	}
}

func TestExtractDocumentYear(t *testing.T) {
	n := NewNormalizer(fragments)
	doc, _ := n.ExtractDocument(Record{DOI: "d", CoverDate: "2021-06-30"})
	if doc.Year == nil || *doc.Year != 2021 {
		t.Fatalf("year = %v", doc.Year)
	}
	doc, _ = n.ExtractDocument(Record{DOI: "d", CoverDate: "June 2021"})
	if doc.Year != nil {
		t.Fatalf("malformed date should yield nil year, got %v", doc.Year)
	}
	doc, _ = n.ExtractDocument(Record{DOI: "d"})
	if doc.Year != nil {
		t.Fatal("missing date should yield nil year")
	}
}

func TestExtractAuthorsSkipsMissingIDs(t *testing.T) {
	n := NewNormalizer(fragments)
	rec := Record{Authors: RawAuthorList{
		{AuthID: "1", AuthName: "Smith J."},
		{AuthName: "No Id"},
		{AuID: "2", IndexedName: "Jones K."},
	}}
	authors := n.ExtractAuthors(rec)
	if len(authors) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(authors))
	}
	if authors[0].AuthorID != "1" || authors[1].AuthorID != "2" {
		t.Fatalf("order not preserved: %+v", authors)
	}
	if authors[1].FullName != "Jones K." {
		t.Fatalf("indexed-name fallback: %+v", authors[1])
	}
}

func TestExtractPublicationKey(t *testing.T) {
	n := NewNormalizer(fragments)
	pub, ok := n.ExtractPublication(Record{PublicationName: "Nature Medicine", ISSN: "1078-8956"})
	if !ok || pub.PublicationID != "1078-8956" {
		t.Fatalf("issn key: %+v", pub)
	}
	pub, ok = n.ExtractPublication(Record{PublicationName: "Journal of Things"})
	if !ok || pub.PublicationID != "name_journal_of_things" {
		t.Fatalf("name key: %+v", pub)
	}
	if _, ok = n.ExtractPublication(Record{}); ok {
		t.Fatal("no venue name should yield no publication")
	}
}

func TestRecordVariantShapes(t *testing.T) {
	raw := []byte(`{
		"prism:doi": "10.1/abc",
		"citedby-count": "17",
		"author": {"authid": "9", "authname": "Solo A."},
		"affiliation": [{"afid": "60019702", "affilname": "University of Birmingham"}]
	}`)
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rec.Authors) != 1 || rec.Authors[0].AuthID != "9" {
		t.Fatalf("single author object not normalized: %+v", rec.Authors)
	}
	if int(rec.CitedByCount) != 17 {
		t.Fatalf("quoted count: %d", rec.CitedByCount)
	}
}

func TestParseRecordsContainers(t *testing.T) {
	cases := map[string]string{
		"search-results": `{"search-results":{"entry":[{"prism:doi":"a"},{"prism:doi":"b"}]}}`,
		"entry":          `{"entry":[{"prism:doi":"a"},{"prism:doi":"b"}]}`,
		"paged":          `{"result_0":{"entry":[{"prism:doi":"a"}]},"result_1":{"entry":[{"prism:doi":"b"}]}}`,
		"array":          `[{"prism:doi":"a"},{"prism:doi":"b"}]`,
	}
	for name, input := range cases {
		records, err := ParseRecords([]byte(input))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(records) != 2 {
			t.Fatalf("%s: expected 2 records, got %d", name, len(records))
		}
	}
	if _, err := ParseRecords([]byte(`{"weird": true}`)); err == nil {
		t.Fatal("unrecognized container should error")
	}
}
