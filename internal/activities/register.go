package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ListFilesActivity)
	w.RegisterActivity(a.EnsureGraphSchemaActivity)
	w.RegisterActivity(a.IngestFileActivity)
	w.RegisterActivity(a.RecordRunActivity)
	w.RegisterActivity(a.ClearGraphActivity)
	w.RegisterActivity(a.GraphStatsActivity)
}
