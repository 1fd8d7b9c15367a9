package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scholargraph/internal/models"
)

// HTTPSearcher talks to an external retrieval service that exposes a
// POST /search endpoint returning paper records as JSON.
type HTTPSearcher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSearcher(baseURL string) *HTTPSearcher {
	return &HTTPSearcher{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *HTTPSearcher) Search(ctx context.Context, query string, k int) ([]models.PaperRecord, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("search service base URL not configured")
	}
	payload, _ := json.Marshal(map[string]any{
		"query": query,
		"top_k": k,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("search service error %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Results []models.PaperRecord `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Some deployments return a bare array.
		var flat []models.PaperRecord
		if err2 := json.Unmarshal(body, &flat); err2 != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		return flat, nil
	}
	return parsed.Results, nil
}
