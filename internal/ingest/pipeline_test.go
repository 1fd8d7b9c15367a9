package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"scholargraph/internal/scopus"
)

type captureWriter struct {
	batches []Batch
	err     error
}

func (w *captureWriter) WriteBatch(_ context.Context, b Batch) error {
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, b)
	return nil
}

const sampleExport = `{
  "search-results": {
    "entry": [
      {
        "prism:doi": "10.1/a",
        "dc:title": "Deep learning at Birmingham",
        "prism:coverDate": "2023-04-01",
        "author": [
          {"authid": "1", "authname": "A. One"},
          {"authid": "2", "authname": "B. Two"}
        ],
        "affiliation": [{"afid": "60019702", "affilname": "University of Birmingham"}]
      },
      {
        "prism:doi": "10.1/b",
        "dc:title": "Unrelated work",
        "author": [{"authid": "3", "authname": "C. Three"}],
        "affiliation": [{"afid": "900", "affilname": "ETH Zurich"}]
      },
      {
        "dc:title": "No identity",
        "author": [{"authid": "1", "authname": "A. One"}],
        "affiliation": [{"afid": "60019702", "affilname": "University of Birmingham"}]
      }
    ]
  }
}`

func newTestPipeline(w GraphWriter) *Pipeline {
	return NewPipeline(scopus.NewNormalizer([]string{"University of Birmingham"}), w, nil)
}

func TestIngestFileFiltersAndCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(sampleExport), 0o644); err != nil {
		t.Fatal(err)
	}
	writer := &captureWriter{}
	stats, err := newTestPipeline(writer).IngestFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if stats.RecordsRead != 3 || stats.Matched != 2 || stats.Dropped != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	if stats.Documents != 1 || stats.Authors != 2 {
		t.Fatalf("entity counts: %+v", stats)
	}
	if len(writer.batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(writer.batches))
	}
	if got := len(writer.batches[0].CoAuthorships); got != 1 {
		t.Fatalf("co-authorships: %d", got)
	}
}

func TestIngestRecordsSkipsWriteWhenNothingMatched(t *testing.T) {
	writer := &captureWriter{err: errors.New("must not be called")}
	stats, err := newTestPipeline(writer).IngestRecords(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.RecordsRead != 0 || stats.Documents != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestIngestFileBadPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`"just a string"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := newTestPipeline(&captureWriter{}).IngestFile(context.Background(), path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestIngestFileWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(sampleExport), 0o644); err != nil {
		t.Fatal(err)
	}
	writer := &captureWriter{err: errors.New("neo4j unavailable")}
	if _, err := newTestPipeline(writer).IngestFile(context.Background(), path); err == nil {
		t.Fatal("expected write error to surface")
	}
}
