package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/epscreen/internal/brain"
	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/logger"
)

// Runner runs a full screen; *brain.Orchestrator implements it
type Runner interface {
	Run(ctx context.Context, cfg brain.RunConfig) (*brain.RunResult, error)
}

// ReportSink receives each finished report (e.g. the API's in-memory store)
type ReportSink interface {
	Set(rep *contracts.Report)
}

// ScreenJob runs the daily EP screen and writes the report files
// ⭐ SSOT: 스크리닝 스케줄은 이 Job에서만
type ScreenJob struct {
	runner   Runner
	sink     ReportSink
	schedule string
	runCfg   brain.RunConfig
	logger   *logger.Logger
}

// NewScreenJob creates a new screen job; sink may be nil
func NewScreenJob(runner Runner, runCfg brain.RunConfig, schedule string, sink ReportSink, log *logger.Logger) *ScreenJob {
	return &ScreenJob{
		runner:   runner,
		sink:     sink,
		schedule: schedule,
		runCfg:   runCfg,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScreenJob) Name() string {
	return "ep_screen"
}

// Schedule returns the cron schedule (default: weekdays after the US close)
func (j *ScreenJob) Schedule() string {
	return j.schedule
}

// Run executes one screen
func (j *ScreenJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled screen")

	result, err := j.runner.Run(ctx, j.runCfg)
	if err != nil {
		return fmt.Errorf("screen run: %w", err)
	}

	if j.sink != nil {
		j.sink.Set(result.Report)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id": result.Report.RunID,
		"rows":   len(result.Report.Rows),
		"json":   result.Paths.JSON,
		"html":   result.Paths.HTML,
	}).Info("Scheduled screen completed")

	return nil
}
