package workflows

import "scholargraph/internal/models"

type GraphIngestInput struct {
	RunID    string   `json:"run_id"`
	InputDir string   `json:"input_dir,omitempty"`
	Files    []string `json:"files,omitempty"`
}

type GraphIngestProgress struct {
	RunID   string             `json:"run_id"`
	Total   int                `json:"total"`
	Done    int                `json:"done"`
	Failed  int                `json:"failed"`
	PerFile map[string]string  `json:"per_file"`
	Stats   models.IngestStats `json:"stats"`
}

type GraphIngestResult struct {
	RunID  string             `json:"run_id"`
	Status string             `json:"status"`
	Stats  models.IngestStats `json:"stats"`
	Failed []string           `json:"failed,omitempty"`
}
