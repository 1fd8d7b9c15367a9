package scopus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseRecords pulls the flat record list out of any of the export
// container shapes we see in practice: a search-results envelope, a
// bare entry envelope, a mapping of named result pages, or a plain
// array of records.
func ParseRecords(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	if data[0] == '[' {
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode record array: %w", err)
		}
		return records, nil
	}

	var envelope struct {
		SearchResults *struct {
			Entry []Record `json:"entry"`
		} `json:"search-results"`
		Entry []Record `json:"entry"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode results container: %w", err)
	}
	if envelope.SearchResults != nil {
		return envelope.SearchResults.Entry, nil
	}
	if envelope.Entry != nil {
		return envelope.Entry, nil
	}

	// Paged exports: {"result_0": {"entry": [...]}, "result_1": ...}.
	var pages map[string]json.RawMessage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("decode results container: %w", err)
	}
	var records []Record
	found := false
	for key, raw := range pages {
		if !strings.HasPrefix(key, "result_") {
			continue
		}
		var page struct {
			Entry []Record `json:"entry"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			continue
		}
		found = true
		records = append(records, page.Entry...)
	}
	if !found {
		return nil, fmt.Errorf("unrecognized results container")
	}
	return records, nil
}
