package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"scholargraph/internal/activities"
)

const QueryGetIngestProgress = "GetIngestProgress"

// GraphIngestWorkflow loads a set of Scopus export files into the
// graph, one activity per file so a failed file retries on its own
// and a crash resumes from the last completed file. The merge
// semantics in the graph layer make replayed files converge, so the
// workflow never double-counts.
func GraphIngestWorkflow(ctx workflow.Context, input GraphIngestInput) (GraphIngestResult, error) {
	progress := GraphIngestProgress{
		RunID:   input.RunID,
		PerFile: map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetIngestProgress, func() (GraphIngestProgress, error) {
		return progress, nil
	}); err != nil {
		return GraphIngestResult{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	if err := workflow.ExecuteActivity(ctx, "EnsureGraphSchemaActivity").Get(ctx, nil); err != nil {
		return GraphIngestResult{}, err
	}

	files := input.Files
	if len(files) == 0 {
		var listOut activities.ListFilesOutput
		if err := workflow.ExecuteActivity(ctx, "ListFilesActivity", activities.ListFilesInput{InputDir: input.InputDir}).Get(ctx, &listOut); err != nil {
			return GraphIngestResult{}, err
		}
		files = listOut.Paths
	}
	if len(files) == 0 {
		return GraphIngestResult{}, fmt.Errorf("no input files to ingest")
	}
	progress.Total = len(files)

	startedAt := workflow.Now(ctx)
	_ = workflow.ExecuteActivity(ctx, "RecordRunActivity", activities.RecordRunInput{
		RunID:     input.RunID,
		Status:    "running",
		Files:     files,
		StartedAt: startedAt,
	}).Get(ctx, nil)

	var failedFiles []string
	var lastError string
	for _, path := range files {
		progress.PerFile[path] = "processing"
		var out activities.IngestFileOutput
		if err := workflow.ExecuteActivity(ctx, "IngestFileActivity", activities.IngestFileInput{Path: path}).Get(ctx, &out); err != nil {
			progress.Failed++
			progress.PerFile[path] = "failed"
			failedFiles = append(failedFiles, path)
			lastError = err.Error()
			continue
		}
		progress.Done++
		progress.PerFile[path] = "done"
		progress.Stats.Add(out.Stats)
	}

	status := "completed"
	switch {
	case progress.Done == 0:
		status = "failed"
	case progress.Failed > 0:
		status = "partial"
	}

	finishedAt := workflow.Now(ctx)
	_ = workflow.ExecuteActivity(ctx, "RecordRunActivity", activities.RecordRunInput{
		RunID:      input.RunID,
		Status:     status,
		Files:      files,
		Stats:      progress.Stats,
		LastError:  lastError,
		StartedAt:  startedAt,
		FinishedAt: &finishedAt,
	}).Get(ctx, nil)

	return GraphIngestResult{
		RunID:  input.RunID,
		Status: status,
		Stats:  progress.Stats,
		Failed: failedFiles,
	}, nil
}
