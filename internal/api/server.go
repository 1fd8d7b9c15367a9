package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"scholargraph/internal/analytics"
	"scholargraph/internal/config"
	"scholargraph/internal/graphstore"
	"scholargraph/internal/models"
	"scholargraph/internal/search"
	"scholargraph/internal/storage"
	"scholargraph/internal/workflows"
)

type Server struct {
	cfg      config.Config
	store    *graphstore.Store
	db       *storage.DB
	runRepo  *storage.RunRepo
	searcher search.Searcher
	temporal tclient.Client
	log      *zap.Logger
}

func NewServer(cfg config.Config, log *zap.Logger) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := graphstore.New(ctx, cfg, log)
	if err != nil {
		panic(err)
	}
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	var searcher search.Searcher
	if cfg.SearchAPIBase != "" {
		searcher = search.NewHTTPSearcher(cfg.SearchAPIBase)
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		db:       db,
		runRepo:  storage.NewRunRepo(db),
		searcher: searcher,
		temporal: tc,
		log:      log,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/ingest", s.handleIngest)
	mux.HandleFunc("/ingest/", s.handleIngestScoped)
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/clear", s.handleClear)
	mux.HandleFunc("/analytics/network", s.handleNetwork)
	mux.HandleFunc("/analytics/trends", s.handleTrends)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		InputDir string   `json:"input_dir"`
		Files    []string `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if strings.TrimSpace(req.InputDir) == "" && len(req.Files) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("input_dir or files is required"))
		return
	}

	runID := uuid.NewString()
	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                                       "ingest-" + runID,
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.GraphIngestWorkflow, workflows.GraphIngestInput{
		RunID:    runID,
		InputDir: req.InputDir,
		Files:    req.Files,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"run_id":      runID,
		"workflow_id": we.GetID(),
	})
}

func (s *Server) handleIngestScoped(w http.ResponseWriter, r *http.Request) {
	runID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/ingest/"), "/")
	if runID == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	resp, err := s.temporal.QueryWorkflow(r.Context(), "ingest-"+runID, "", workflows.QueryGetIngestProgress)
	if err != nil {
		// No live workflow; fall back to the persisted run record.
		run, rErr := s.runRepo.GetRun(r.Context(), runID)
		if rErr != nil {
			writeErr(w, http.StatusNotFound, fmt.Errorf("run %s not found", runID))
			return
		}
		writeJSON(w, http.StatusOK, run)
		return
	}
	var prog workflows.GraphIngestProgress
	if err := resp.Get(&prog); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	runs, err := s.runRepo.ListRuns(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	writeJSON(w, http.StatusOK, graphstore.Stats(r.Context(), s.store))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	deleted, err := graphstore.Clear(r.Context(), s.store, s.cfg.BatchSize, s.log)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	records, ok := s.searchRecords(w, r)
	if !ok {
		return
	}
	graph := analytics.BuildCollaborationGraph(records, s.cfg.Institutions, queryInt(r, "min_papers", s.cfg.MinPapers))
	writeJSON(w, http.StatusOK, analytics.AnalyzeNetwork(graph, queryInt(r, "top_k", 5)))
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	records, ok := s.searchRecords(w, r)
	if !ok {
		return
	}
	summary := analytics.AnalyzeTrends(records, s.cfg.Institutions,
		queryInt(r, "years_back", s.cfg.YearsBack), time.Now(), nil)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) searchRecords(w http.ResponseWriter, r *http.Request) ([]models.PaperRecord, bool) {
	if s.searcher == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("search service is not configured"))
		return nil, false
	}
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return nil, false
	}
	records, err := s.searcher.Search(r.Context(), query, queryInt(r, "k", s.cfg.SearchTopK))
	if err != nil {
		writeErr(w, http.StatusBadGateway, err)
		return nil, false
	}
	return records, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
