package analytics

import (
	"math"
	"testing"
	"time"

	"scholargraph/internal/models"
)

var trendInstitutions = []string{"birmingham"}

func trendRecord(year int, title string, citations int) models.PaperRecord {
	y := year
	return models.PaperRecord{
		Title:           title,
		Authors:         []string{"A. One", "B. Two"},
		Year:            &y,
		Citations:       citations,
		MainAffiliation: "University of Birmingham",
	}
}

func seriesRecords(now time.Time, counts []int) []models.PaperRecord {
	var recs []models.PaperRecord
	first := now.Year() - len(counts) + 1
	for i, c := range counts {
		for j := 0; j < c; j++ {
			recs = append(recs, trendRecord(first+i, "paper", 2))
		}
	}
	return recs
}

func TestAnalyzeTrendsGrowingSeries(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	summary := AnalyzeTrends(seriesRecords(now, []int{2, 2, 3, 5, 8}), trendInstitutions, 10, now, nil)

	if len(summary.Years) != 5 {
		t.Fatalf("years: %+v", summary.Years)
	}
	if math.Abs(summary.PaperTrend-1.5) > 1e-9 {
		t.Fatalf("paper trend = %f, want 1.5", summary.PaperTrend)
	}
	if summary.Direction != "growing" {
		t.Fatalf("direction = %q", summary.Direction)
	}
	if summary.TotalPapers != 20 || summary.TotalCitations != 40 {
		t.Fatalf("totals: %d papers %d citations", summary.TotalPapers, summary.TotalCitations)
	}
}

func TestAnalyzeTrendsFlatSeries(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	summary := AnalyzeTrends(seriesRecords(now, []int{3, 3, 3, 3, 3}), trendInstitutions, 10, now, nil)

	if math.Abs(summary.PaperTrend) > 1e-9 {
		t.Fatalf("paper trend = %f, want 0", summary.PaperTrend)
	}
	if summary.Direction != "stable" {
		t.Fatalf("direction = %q", summary.Direction)
	}
}

func TestAnalyzeTrendsWindowAndInstitutionFilter(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	old := trendRecord(2010, "ancient paper", 100)
	elsewhere := trendRecord(2025, "other campus", 5)
	elsewhere.MainAffiliation = "University of Manchester"
	recs := []models.PaperRecord{old, elsewhere, trendRecord(2025, "recent paper", 3)}

	summary := AnalyzeTrends(recs, trendInstitutions, 10, now, nil)
	if summary.TotalPapers != 1 || summary.TotalCitations != 3 {
		t.Fatalf("filtering failed: %+v", summary)
	}
	if summary.Direction != "stable" {
		t.Fatalf("single year must stay stable, got %q", summary.Direction)
	}
}

func TestEmergingKeywordRanking(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	vocab := []string{"alpha", "beta"}

	var recs []models.PaperRecord
	// Earlier window: alpha once, beta five times.
	recs = append(recs, trendRecord(2022, "alpha methods", 1))
	for i := 0; i < 3; i++ {
		recs = append(recs, trendRecord(2022, "beta review", 1))
	}
	recs = append(recs, trendRecord(2023, "beta review", 1), trendRecord(2023, "beta survey", 1))
	// Recent window: alpha three times, beta twice.
	recs = append(recs,
		trendRecord(2024, "alpha at scale", 1),
		trendRecord(2025, "more alpha", 1),
		trendRecord(2026, "alpha again", 1),
		trendRecord(2024, "beta redux", 1),
		trendRecord(2025, "beta again", 1),
	)

	summary := AnalyzeTrends(recs, trendInstitutions, 10, now, vocab)
	if len(summary.EmergingKeywords) != 1 {
		t.Fatalf("emerging keywords: %+v", summary.EmergingKeywords)
	}
	kw := summary.EmergingKeywords[0]
	if kw.Keyword != "alpha" || kw.RecentCount != 3 || math.Abs(kw.Growth-2.0) > 1e-9 {
		t.Fatalf("alpha entry: %+v", kw)
	}
}

func TestExtractKeywords(t *testing.T) {
	found := ExtractKeywords("Deep Learning for Medical Imaging: a deep learning survey", DefaultKeywords)
	seen := map[string]bool{}
	for _, kw := range found {
		if seen[kw] {
			t.Fatalf("duplicate keyword %q", kw)
		}
		seen[kw] = true
	}
	if !seen["deep learning"] || !seen["medical imaging"] {
		t.Fatalf("keywords: %v", found)
	}
}
