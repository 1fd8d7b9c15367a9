package analytics

import (
	"sort"
	"strings"

	"scholargraph/internal/models"
)

// AuthorInfo carries the per-author aggregates observed while
// building the collaboration graph.
type AuthorInfo struct {
	Papers    int   `json:"papers"`
	Citations int   `json:"citations"`
	Years     []int `json:"years,omitempty"`
}

// CollabGraph is the transient, per-query weighted co-authorship
// graph. Nodes are active authors keyed by display name; edge weights
// are pairwise co-occurrence counts within the current result set.
type CollabGraph struct {
	Authors   map[string]AuthorInfo
	Adjacency map[string]map[string]int
}

func (g *CollabGraph) NodeCount() int { return len(g.Authors) }

func (g *CollabGraph) EdgeCount() int {
	n := 0
	for _, nbrs := range g.Adjacency {
		n += len(nbrs)
	}
	return n / 2
}

func (g *CollabGraph) Nodes() []string {
	nodes := make([]string, 0, len(g.Authors))
	for a := range g.Authors {
		nodes = append(nodes, a)
	}
	sort.Strings(nodes)
	return nodes
}

func (g *CollabGraph) Edges() []models.NetworkEdge {
	var edges []models.NetworkEdge
	for a, nbrs := range g.Adjacency {
		for b, w := range nbrs {
			if a < b {
				edges = append(edges, models.NetworkEdge{Author1: a, Author2: b, Weight: w})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Author1 != edges[j].Author1 {
			return edges[i].Author1 < edges[j].Author1
		}
		return edges[i].Author2 < edges[j].Author2
	})
	return edges
}

func matchesInstitution(affiliation string, fragments []string) bool {
	affiliation = strings.ToLower(affiliation)
	if affiliation == "" {
		return false
	}
	for _, f := range fragments {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && strings.Contains(affiliation, f) {
			return true
		}
	}
	return false
}

// BuildCollaborationGraph derives the co-authorship graph from one
// search result set. Records outside the institution set or with
// fewer than two authors are skipped; authors below minPapers are
// excluded along with their edges.
func BuildCollaborationGraph(records []models.PaperRecord, institutions []string, minPapers int) *CollabGraph {
	if minPapers < 1 {
		minPapers = 1
	}

	paperCount := map[string]int{}
	citations := map[string]int{}
	years := map[string]map[int]struct{}{}
	coocc := map[string]map[string]int{}

	for _, rec := range records {
		if !matchesInstitution(rec.MainAffiliation, institutions) {
			continue
		}
		authors := cleanAuthors(rec.Authors)
		if len(authors) < 2 {
			continue
		}
		for _, a := range authors {
			paperCount[a]++
			citations[a] += rec.Citations
			if rec.Year != nil {
				if years[a] == nil {
					years[a] = map[int]struct{}{}
				}
				years[a][*rec.Year] = struct{}{}
			}
		}
		for i := 0; i < len(authors); i++ {
			for j := i + 1; j < len(authors); j++ {
				addCooccurrence(coocc, authors[i], authors[j])
			}
		}
	}

	g := &CollabGraph{
		Authors:   map[string]AuthorInfo{},
		Adjacency: map[string]map[string]int{},
	}
	for author, count := range paperCount {
		if count < minPapers {
			continue
		}
		info := AuthorInfo{Papers: count, Citations: citations[author]}
		for y := range years[author] {
			info.Years = append(info.Years, y)
		}
		sort.Ints(info.Years)
		g.Authors[author] = info
		g.Adjacency[author] = map[string]int{}
	}

	// Edges touching a non-active author are dropped, not redistributed.
	for a, nbrs := range coocc {
		if _, ok := g.Authors[a]; !ok {
			continue
		}
		for b, w := range nbrs {
			if _, ok := g.Authors[b]; !ok || w <= 0 {
				continue
			}
			g.Adjacency[a][b] = w
		}
	}
	return g
}

func cleanAuthors(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := map[string]struct{}{}
	for _, a := range raw {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func addCooccurrence(coocc map[string]map[string]int, a, b string) {
	if coocc[a] == nil {
		coocc[a] = map[string]int{}
	}
	if coocc[b] == nil {
		coocc[b] = map[string]int{}
	}
	coocc[a][b]++
	coocc[b][a]++
}
