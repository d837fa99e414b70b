package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/wonny/epscreen/internal/brain"
	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/internal/report"
	"github.com/wonny/epscreen/pkg/logger"
)

// Runner runs screens and diffs; *brain.Orchestrator implements it
type Runner interface {
	Run(ctx context.Context, cfg brain.RunConfig) (*brain.RunResult, error)
	Diff(ctx context.Context, universeFile string) (contracts.DiffResult, error)
}

// ReportStore keeps the last report produced by this process, in memory only
type ReportStore struct {
	mu   sync.RWMutex
	last *contracts.Report
}

// Set replaces the stored report
func (s *ReportStore) Set(rep *contracts.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = rep
}

// Get returns the stored report or nil
func (s *ReportStore) Get() *contracts.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// ScreenHandler handles screen-related API endpoints
// ⭐ SSOT: 스크리닝 API 핸들러는 여기서만
type ScreenHandler struct {
	runner       Runner
	store        *ReportStore
	universeFile string
	outputDir    string
	running      atomic.Bool
	logger       *logger.Logger
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(runner Runner, store *ReportStore, universeFile, outputDir string, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		runner:       runner,
		store:        store,
		universeFile: universeFile,
		outputDir:    outputDir,
		logger:       log,
	}
}

// ScreenRequest is the optional body of POST /api/screen
type ScreenRequest struct {
	WriteFiles bool `json:"write_files"`
}

// ScreenResponse wraps a report with its output records
type ScreenResponse struct {
	Report  *contracts.Report `json:"report"`
	Records []report.Record   `json:"records"`
	Files   *report.Paths     `json:"files,omitempty"`
}

// Screen runs a screen over the configured universe
// POST /api/screen
func (h *ScreenHandler) Screen(w http.ResponseWriter, r *http.Request) {
	var req ScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.running.CompareAndSwap(false, true) {
		respondError(w, http.StatusConflict, "A screen is already running")
		return
	}
	defer h.running.Store(false)

	cfg := brain.RunConfig{UniverseFile: h.universeFile}
	if req.WriteFiles {
		cfg.OutputDir = h.outputDir
	}

	result, err := h.runner.Run(r.Context(), cfg)
	if err != nil {
		h.logger.WithError(err).Error("Screen failed")
		status := http.StatusInternalServerError
		if errors.Is(err, contracts.ErrLoadFailure) {
			status = http.StatusUnprocessableEntity
		}
		respondError(w, status, err.Error())
		return
	}

	h.store.Set(result.Report)

	resp := ScreenResponse{
		Report:  result.Report,
		Records: report.Records(result.Report.Rows),
	}
	if cfg.OutputDir != "" {
		resp.Files = &result.Paths
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetReport returns the last report, as JSON or (format=html) as a page
// GET /api/report
func (h *ScreenHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep := h.store.Get()
	if rep == nil {
		respondError(w, http.StatusNotFound, "No report has been produced yet")
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		respondJSON(w, http.StatusOK, ScreenResponse{Report: rep, Records: report.Records(rep.Rows)})
	case "html":
		page, err := report.RenderHTML(rep)
		if err != nil {
			h.logger.WithError(err).Error("Failed to render report")
			respondError(w, http.StatusInternalServerError, "Failed to render report")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, page)
	default:
		respondError(w, http.StatusBadRequest, "Invalid format (valid: json, html)")
	}
}

// GetDiff returns the universe diff against the previous version
// GET /api/diff
func (h *ScreenHandler) GetDiff(w http.ResponseWriter, r *http.Request) {
	diff, err := h.runner.Diff(r.Context(), h.universeFile)
	if err != nil {
		h.logger.WithError(err).Error("Diff failed")
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, diff)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
