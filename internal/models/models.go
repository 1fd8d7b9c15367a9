package models

import "time"

type Document struct {
	DocumentID    string `json:"document_id"`
	Title         string `json:"title,omitempty"`
	Abstract      string `json:"abstract,omitempty"`
	Year          *int   `json:"year,omitempty"`
	CitationCount int    `json:"citation_count"`
	DOI           string `json:"doi,omitempty"`
	ScopusID      string `json:"scopus_id,omitempty"`
}

type Author struct {
	AuthorID string `json:"author_id"`
	FullName string `json:"full_name,omitempty"`
	ORCID    string `json:"orcid,omitempty"`
}

type Affiliation struct {
	AffiliationID string `json:"affiliation_id"`
	Name          string `json:"name,omitempty"`
	City          string `json:"city,omitempty"`
	Country       string `json:"country,omitempty"`
}

type Publication struct {
	PublicationID string `json:"publication_id"`
	Name          string `json:"name,omitempty"`
	ISSN          string `json:"issn,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
}

type AuthorOf struct {
	AuthorID   string `json:"author_id"`
	DocumentID string `json:"document_id"`
}

type AffiliatedWith struct {
	AuthorID      string `json:"author_id"`
	AffiliationID string `json:"affiliation_id"`
}

type PublishedIn struct {
	DocumentID    string `json:"document_id"`
	PublicationID string `json:"publication_id"`
}

// CoAuthorship aggregates one unordered author pair. DocumentIDs are
// the documents the pair shared within the current run; the persisted
// collaboration_count only ever grows by documents the store has not
// seen on that edge before.
type CoAuthorship struct {
	Author1ID   string   `json:"author1_id"`
	Author2ID   string   `json:"author2_id"`
	Count       int      `json:"count"`
	DocumentIDs []string `json:"document_ids"`
}

// PaperRecord is the shape the external search collaborator returns.
type PaperRecord struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Year            *int     `json:"year,omitempty"`
	Citations       int      `json:"citations"`
	MainAffiliation string   `json:"main_affiliation,omitempty"`
}

type IngestStats struct {
	RecordsRead  int `json:"records_read"`
	Matched      int `json:"matched"`
	Dropped      int `json:"dropped"`
	Documents    int `json:"documents"`
	Authors      int `json:"authors"`
	Affiliations int `json:"affiliations"`
	Publications int `json:"publications"`
}

func (s *IngestStats) Add(o IngestStats) {
	s.RecordsRead += o.RecordsRead
	s.Matched += o.Matched
	s.Dropped += o.Dropped
	s.Documents += o.Documents
	s.Authors += o.Authors
	s.Affiliations += o.Affiliations
	s.Publications += o.Publications
}

type IngestRun struct {
	RunID      string      `json:"run_id"`
	Status     string      `json:"status"`
	Files      []string    `json:"files"`
	Stats      IngestStats `json:"stats"`
	LastError  string      `json:"last_error,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

type StoreStats struct {
	Documents    int64 `json:"document_nodes"`
	Authors      int64 `json:"author_nodes"`
	Affiliations int64 `json:"affiliation_nodes"`
	Publications int64 `json:"publication_nodes"`
	TotalNodes   int64 `json:"total_nodes"`
}

type CentralityEntry struct {
	Author string  `json:"author"`
	Score  float64 `json:"score"`
	Papers int     `json:"papers"`
}

type Community struct {
	Members []string `json:"members"`
}

type NetworkEdge struct {
	Author1 string `json:"author1"`
	Author2 string `json:"author2"`
	Weight  int    `json:"weight"`
}

type NetworkSummary struct {
	NodeCount      int                          `json:"node_count"`
	EdgeCount      int                          `json:"edge_count"`
	Density        float64                      `json:"density"`
	ComponentCount int                          `json:"component_count"`
	CommunityCount int                          `json:"community_count"`
	Communities    []Community                  `json:"communities,omitempty"`
	Centrality     map[string][]CentralityEntry `json:"centrality,omitempty"`
	Edges          []NetworkEdge                `json:"edges,omitempty"`
}

type YearStats struct {
	Year         int     `json:"year"`
	Papers       int     `json:"papers"`
	Citations    int     `json:"citations"`
	Authors      int     `json:"authors"`
	AvgCitations float64 `json:"avg_citations"`
}

type EmergingKeyword struct {
	Keyword     string  `json:"keyword"`
	RecentCount int     `json:"recent_count"`
	Growth      float64 `json:"growth"`
}

type TrendSummary struct {
	Years            []YearStats       `json:"years"`
	PaperTrend       float64           `json:"paper_trend"`
	CitationTrend    float64           `json:"citation_trend"`
	Direction        string            `json:"direction"`
	TotalPapers      int               `json:"total_papers"`
	TotalCitations   int               `json:"total_citations"`
	EmergingKeywords []EmergingKeyword `json:"emerging_keywords,omitempty"`
}
