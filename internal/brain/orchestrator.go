package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/internal/pipeline"
	"github.com/wonny/epscreen/internal/report"
	"github.com/wonny/epscreen/internal/s1_universe"
	"github.com/wonny/epscreen/pkg/logger"
)

// Orchestrator coordinates one screening run
// Load → Diff → Screen(+Rank) → Report
// ⭐ SSOT: 실행 흐름 조율은 여기서만
type Orchestrator struct {
	screener   *pipeline.Screener
	differ     *s1_universe.Differ
	configHash string
	now        func() time.Time
	logger     *logger.Logger
}

// RunConfig holds the inputs of a run
type RunConfig struct {
	UniverseFile string
	OutputDir    string // empty = do not write files
}

// RunResult holds the results of a run
type RunResult struct {
	Report          *contracts.Report
	Paths           report.Paths
	CompletedStages []string
	Duration        time.Duration
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	screener *pipeline.Screener,
	differ *s1_universe.Differ,
	configHash string,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		screener:   screener,
		differ:     differ,
		configHash: configHash,
		now:        time.Now,
		logger:     log.WithField("module", "orchestrator"),
	}
}

// Run executes a full run. A ticker list that cannot be read aborts before any
// output; per-ticker failures are rows in the report.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	startTime := time.Now()
	result := &RunResult{CompletedStages: make([]string, 0, 4)}

	o.logger.WithFields(map[string]interface{}{
		"universe_file": cfg.UniverseFile,
		"output_dir":    cfg.OutputDir,
		"config_hash":   o.configHash,
	}).Info("Starting screen run")

	// 1. Load
	tickers, err := s1_universe.LoadTickers(cfg.UniverseFile)
	if err != nil {
		return result, err
	}
	result.CompletedStages = append(result.CompletedStages, "Load")

	// 2. Diff (never fails)
	diff := o.differ.Compute(ctx, tickers)
	result.CompletedStages = append(result.CompletedStages, "Diff")

	// 3. Screen + Rank
	rows, err := o.screener.Screen(ctx, tickers)
	if err != nil {
		return result, fmt.Errorf("screen: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "Screen")

	result.Report = report.New(tickers, rows, diff, o.configHash, o.now())

	// 4. Report files
	if cfg.OutputDir != "" {
		paths, err := report.WriteFiles(cfg.OutputDir, result.Report)
		if err != nil {
			return result, fmt.Errorf("write report: %w", err)
		}
		result.Paths = paths
		result.CompletedStages = append(result.CompletedStages, "Report")
	}

	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"run_id":   result.Report.RunID,
		"tickers":  len(tickers),
		"scored":   result.Report.Stats.Scored,
		"failed":   result.Report.Stats.Failed,
		"added":    len(diff.Added),
		"removed":  len(diff.Removed),
		"duration": result.Duration.Seconds(),
	}).Info("Screen run completed")

	return result, nil
}

// Diff computes only the universe diff for the list at universeFile
func (o *Orchestrator) Diff(ctx context.Context, universeFile string) (contracts.DiffResult, error) {
	tickers, err := s1_universe.LoadTickers(universeFile)
	if err != nil {
		return contracts.DiffResult{}, err
	}
	return o.differ.Compute(ctx, tickers), nil
}
