package activities

import (
	"time"

	"scholargraph/internal/models"
)

type ListFilesInput struct {
	InputDir string `json:"input_dir"`
}

type ListFilesOutput struct {
	Paths []string `json:"paths"`
}

type IngestFileInput struct {
	Path string `json:"path"`
}

type IngestFileOutput struct {
	Stats models.IngestStats `json:"stats"`
}

type RecordRunInput struct {
	RunID      string             `json:"run_id"`
	Status     string             `json:"status"`
	Files      []string           `json:"files"`
	Stats      models.IngestStats `json:"stats"`
	LastError  string             `json:"last_error,omitempty"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
}

type ClearGraphInput struct {
	BatchSize int `json:"batch_size,omitempty"`
}

type ClearGraphOutput struct {
	Deleted int64 `json:"deleted"`
}

type GraphStatsOutput struct {
	Stats models.StoreStats `json:"stats"`
}
