package analytics

import (
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"scholargraph/internal/models"
)

const (
	recentWindowYears   = 3
	maxEmergingKeywords = 10
	growingSlope        = 0.1
)

// DefaultKeywords is the controlled vocabulary matched against titles
// when no override is configured.
var DefaultKeywords = []string{
	"deep learning", "machine learning", "neural network", "artificial intelligence",
	"computer vision", "natural language processing", "reinforcement learning",
	"transformer", "attention", "convolutional", "lstm", "gru",
	"classification", "segmentation", "detection", "prediction",
	"medical imaging", "healthcare", "clinical", "diagnosis",
	"covid", "cancer", "tumor", "disease",
	"interpretable", "explainable", "federated", "privacy",
	"robust", "adversarial", "uncertainty", "ensemble",
}

// ExtractKeywords reports which vocabulary entries occur in the title,
// one hit per keyword regardless of repeats.
func ExtractKeywords(title string, vocabulary []string) []string {
	title = strings.ToLower(title)
	var found []string
	for _, kw := range vocabulary {
		if strings.Contains(title, kw) {
			found = append(found, kw)
		}
	}
	return found
}

type yearAgg struct {
	papers    int
	citations int
	authors   map[string]struct{}
}

// AnalyzeTrends aggregates a result set by year within the lookback
// window, fits a linear trend to paper and citation counts, and ranks
// emerging keywords by recent-versus-earlier growth. Always returns a
// well-formed summary; thin inputs just leave parts empty.
func AnalyzeTrends(records []models.PaperRecord, institutions []string, yearsBack int, now time.Time, vocabulary []string) models.TrendSummary {
	if yearsBack <= 0 {
		yearsBack = 10
	}
	if len(vocabulary) == 0 {
		vocabulary = DefaultKeywords
	}
	startYear := now.Year() - yearsBack

	byYear := map[int]*yearAgg{}
	keywordByYear := map[string]map[int]int{}

	for _, rec := range records {
		if rec.Year == nil || *rec.Year < startYear {
			continue
		}
		if !matchesInstitution(rec.MainAffiliation, institutions) {
			continue
		}
		year := *rec.Year
		agg := byYear[year]
		if agg == nil {
			agg = &yearAgg{authors: map[string]struct{}{}}
			byYear[year] = agg
		}
		agg.papers++
		agg.citations += rec.Citations
		for _, a := range cleanAuthors(rec.Authors) {
			agg.authors[a] = struct{}{}
		}
		for _, kw := range ExtractKeywords(rec.Title, vocabulary) {
			if keywordByYear[kw] == nil {
				keywordByYear[kw] = map[int]int{}
			}
			keywordByYear[kw][year]++
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	summary := models.TrendSummary{Direction: "stable"}
	for _, y := range years {
		agg := byYear[y]
		stats := models.YearStats{
			Year:      y,
			Papers:    agg.papers,
			Citations: agg.citations,
			Authors:   len(agg.authors),
		}
		if agg.papers > 0 {
			stats.AvgCitations = float64(agg.citations) / float64(agg.papers)
		}
		summary.Years = append(summary.Years, stats)
		summary.TotalPapers += agg.papers
		summary.TotalCitations += agg.citations
	}

	if len(years) >= 2 {
		xs := make([]float64, len(years))
		papers := make([]float64, len(years))
		citations := make([]float64, len(years))
		for i, y := range years {
			xs[i] = float64(i)
			papers[i] = float64(byYear[y].papers)
			citations[i] = float64(byYear[y].citations)
		}
		_, summary.PaperTrend = stat.LinearRegression(xs, papers, nil, false)
		_, summary.CitationTrend = stat.LinearRegression(xs, citations, nil, false)
		switch {
		case summary.PaperTrend > growingSlope:
			summary.Direction = "growing"
		case summary.PaperTrend < -growingSlope:
			summary.Direction = "declining"
		}
	}

	summary.EmergingKeywords = emergingKeywords(keywordByYear, years)
	return summary
}

// emergingKeywords compares the most recent three qualifying years
// against everything earlier. Needs at least three distinct years.
func emergingKeywords(keywordByYear map[string]map[int]int, years []int) []models.EmergingKeyword {
	if len(years) < recentWindowYears {
		return nil
	}
	recentYears := years[len(years)-recentWindowYears:]
	earlierYears := years[:len(years)-recentWindowYears]

	var out []models.EmergingKeyword
	for kw, counts := range keywordByYear {
		recent := 0
		for _, y := range recentYears {
			recent += counts[y]
		}
		earlier := 0
		for _, y := range earlierYears {
			earlier += counts[y]
		}
		if earlier == 0 {
			earlier = 1
		}
		if recent < 2 || recent <= earlier {
			continue
		}
		out = append(out, models.EmergingKeyword{
			Keyword:     kw,
			RecentCount: recent,
			Growth:      float64(recent-earlier) / float64(earlier),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Growth != out[j].Growth {
			return out[i].Growth > out[j].Growth
		}
		if out[i].RecentCount != out[j].RecentCount {
			return out[i].RecentCount > out[j].RecentCount
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > maxEmergingKeywords {
		out = out[:maxEmergingKeywords]
	}
	return out
}
