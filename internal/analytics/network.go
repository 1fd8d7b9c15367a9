package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"scholargraph/internal/models"
)

const (
	eigenvectorIterations = 100
	eigenvectorTolerance  = 1e-6
)

// AnalyzeNetwork computes centrality measures and the community
// partition over a collaboration graph. Degenerate inputs produce an
// empty (never nil-field) summary rather than an error; eigenvector
// centrality is only reported for connected graphs.
func AnalyzeNetwork(g *CollabGraph, topK int) models.NetworkSummary {
	if topK <= 0 {
		topK = 5
	}
	summary := models.NetworkSummary{
		NodeCount:  g.NodeCount(),
		EdgeCount:  g.EdgeCount(),
		Centrality: map[string][]models.CentralityEntry{},
		Edges:      g.Edges(),
	}
	if summary.NodeCount == 0 {
		return summary
	}

	names := g.Nodes()
	ids := make(map[string]int64, len(names))
	ug := simple.NewUndirectedGraph()
	for i, name := range names {
		ids[name] = int64(i)
		ug.AddNode(simple.Node(int64(i)))
	}
	for a, nbrs := range g.Adjacency {
		for b := range nbrs {
			if a < b {
				ug.SetEdge(simple.Edge{F: simple.Node(ids[a]), T: simple.Node(ids[b])})
			}
		}
	}

	n := len(names)
	if n > 1 {
		summary.Density = 2 * float64(summary.EdgeCount) / float64(n*(n-1))
	}
	components := topo.ConnectedComponents(ug)
	summary.ComponentCount = len(components)

	summary.Centrality["degree"] = topEntries(degreeCentrality(g), g, topK)
	summary.Centrality["betweenness"] = topEntries(betweennessCentrality(ug, names), g, topK)
	summary.Centrality["closeness"] = topEntries(closenessCentrality(ug, names), g, topK)
	if vals := eigenvectorCentrality(g, len(components)); len(vals) > 0 {
		summary.Centrality["eigenvector"] = topEntries(vals, g, topK)
	} else {
		summary.Centrality["eigenvector"] = []models.CentralityEntry{}
	}

	summary.Communities = detectCommunities(ug, names)
	summary.CommunityCount = len(summary.Communities)
	return summary
}

// degreeCentrality is the fraction of other nodes each node touches.
func degreeCentrality(g *CollabGraph) map[string]float64 {
	n := g.NodeCount()
	out := make(map[string]float64, n)
	for author := range g.Authors {
		if n <= 1 {
			out[author] = 0
			continue
		}
		out[author] = float64(len(g.Adjacency[author])) / float64(n-1)
	}
	return out
}

func betweennessCentrality(ug *simple.UndirectedGraph, names []string) map[string]float64 {
	n := len(names)
	out := make(map[string]float64, n)
	raw := network.Betweenness(ug)
	norm := 1.0
	if n > 2 {
		norm = float64((n - 1) * (n - 2))
	}
	for i, name := range names {
		out[name] = raw[int64(i)] / norm
	}
	return out
}

// closenessCentrality uses the component-scaled form so disconnected
// graphs still get sensible values.
func closenessCentrality(ug *simple.UndirectedGraph, names []string) map[string]float64 {
	n := len(names)
	out := make(map[string]float64, n)
	if n <= 1 {
		for _, name := range names {
			out[name] = 0
		}
		return out
	}
	paths := path.DijkstraAllPaths(ug)
	for i, name := range names {
		var sum float64
		reachable := 0
		for j := range names {
			if i == j {
				continue
			}
			w := paths.Weight(int64(i), int64(j))
			if math.IsInf(w, 1) {
				continue
			}
			sum += w
			reachable++
		}
		if reachable == 0 || sum == 0 {
			out[name] = 0
			continue
		}
		c := float64(reachable) / sum
		out[name] = c * float64(reachable) / float64(n-1)
	}
	return out
}

// eigenvectorCentrality runs power iteration on the unweighted
// adjacency. Defined only for connected graphs (or a single node);
// otherwise reported as empty.
func eigenvectorCentrality(g *CollabGraph, componentCount int) map[string]float64 {
	n := g.NodeCount()
	if n == 1 {
		for author := range g.Authors {
			return map[string]float64{author: 1}
		}
	}
	if componentCount != 1 {
		return map[string]float64{}
	}

	names := g.Nodes()
	vec := make(map[string]float64, n)
	for _, name := range names {
		vec[name] = 1 / math.Sqrt(float64(n))
	}
	for iter := 0; iter < eigenvectorIterations; iter++ {
		next := make(map[string]float64, n)
		for _, name := range names {
			for nbr := range g.Adjacency[name] {
				next[name] += vec[nbr]
			}
		}
		var norm float64
		for _, v := range next {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return map[string]float64{}
		}
		var delta float64
		for _, name := range names {
			next[name] /= norm
			delta += math.Abs(next[name] - vec[name])
		}
		vec = next
		if delta < eigenvectorTolerance*float64(n) {
			break
		}
	}
	return vec
}

// detectCommunities partitions by greedy modularity maximization.
// Failures on degenerate graphs yield an empty list, never an error.
func detectCommunities(ug *simple.UndirectedGraph, names []string) (out []models.Community) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()
	if len(names) == 0 {
		return nil
	}
	reduced := community.Modularize(ug, 1, nil)
	var communities []models.Community
	for _, nodes := range reduced.Communities() {
		members := make([]string, 0, len(nodes))
		for _, node := range nodes {
			members = append(members, names[int(node.ID())])
		}
		sort.Strings(members)
		communities = append(communities, models.Community{Members: members})
	}
	sort.Slice(communities, func(i, j int) bool {
		if len(communities[i].Members) != len(communities[j].Members) {
			return len(communities[i].Members) > len(communities[j].Members)
		}
		return communities[i].Members[0] < communities[j].Members[0]
	})
	return communities
}

func topEntries(scores map[string]float64, g *CollabGraph, k int) []models.CentralityEntry {
	entries := make([]models.CentralityEntry, 0, len(scores))
	for author, score := range scores {
		entries = append(entries, models.CentralityEntry{
			Author: author,
			Score:  score,
			Papers: g.Authors[author].Papers,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Author < entries[j].Author
	})
	if len(entries) > k {
		entries = entries[:k]
	}
	return entries
}
