package analytics

import (
	"testing"

	"scholargraph/internal/models"
)

var testInstitutions = []string{"University of Birmingham"}

func rec(title string, year int, citations int, authors ...string) models.PaperRecord {
	y := year
	return models.PaperRecord{
		Title:           title,
		Authors:         authors,
		Year:            &y,
		Citations:       citations,
		MainAffiliation: "University of Birmingham",
	}
}

func TestBuildCollaborationGraphThreshold(t *testing.T) {
	records := []models.PaperRecord{
		rec("p1", 2021, 3, "Alice", "Bob"),
		rec("p2", 2022, 1, "Alice", "Bob"),
		rec("p3", 2022, 2, "Alice", "Carol"),
	}
	g := BuildCollaborationGraph(records, testInstitutions, 2)

	if g.NodeCount() != 2 {
		t.Fatalf("expected Alice and Bob active, got %v", g.Nodes())
	}
	if _, ok := g.Authors["Carol"]; ok {
		t.Fatal("Carol has one paper and must be excluded")
	}
	if w := g.Adjacency["Alice"]["Bob"]; w != 2 {
		t.Fatalf("Alice-Bob weight = %d, want 2", w)
	}
	// Alice-Carol edge is dropped with Carol, not redistributed.
	if g.EdgeCount() != 1 {
		t.Fatalf("edge count = %d, want 1", g.EdgeCount())
	}
	if info := g.Authors["Alice"]; info.Papers != 3 || info.Citations != 6 {
		t.Fatalf("Alice info = %+v", info)
	}
}

func TestBuildCollaborationGraphFilters(t *testing.T) {
	solo := rec("solo", 2022, 0, "Alice")
	outside := models.PaperRecord{
		Title:           "other place",
		Authors:         []string{"X", "Y"},
		MainAffiliation: "University of Warwick",
	}
	g := BuildCollaborationGraph([]models.PaperRecord{solo, outside}, testInstitutions, 1)
	if g.NodeCount() != 0 {
		t.Fatalf("single-author and non-target records must be skipped, got %v", g.Nodes())
	}
}

func TestBuildCollaborationGraphBlankAuthors(t *testing.T) {
	records := []models.PaperRecord{
		rec("p1", 2021, 0, "Alice", "", "Bob", "Alice"),
	}
	g := BuildCollaborationGraph(records, testInstitutions, 1)
	if g.NodeCount() != 2 {
		t.Fatalf("blank and duplicate author names must be dropped, got %v", g.Nodes())
	}
	if w := g.Adjacency["Alice"]["Bob"]; w != 1 {
		t.Fatalf("weight = %d, want 1", w)
	}
}
