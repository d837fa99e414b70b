package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/epscreen/internal/scheduler"
	"github.com/wonny/epscreen/internal/scheduler/jobs"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "스케줄러 시작",
	Long: `SCHEDULE_CRON(초 단위 포함 cron, 기본 "0 30 16 * * 1-5")에 맞춰
스크리닝을 실행합니다. 실패한 실행은 재시도하지 않으며
이전 실행이 끝나지 않았으면 해당 트리거는 건너뜁니다.

Example:
  go run ./cmd/screener schedule
  go run ./cmd/screener schedule --now
  SCHEDULE_CRON="0 0 22 * * 1-5" go run ./cmd/screener schedule`,
	RunE: runSchedule,
}

var (
	scheduleRunNow bool
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "now", false, "시작 직후 1회 즉시 실행")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.New(a.log)
	job := jobs.NewScreenJob(a.orchestrator, a.runConfig(), a.cfg.ScheduleCron, nil, a.log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	sched.Start()

	out := cmd.OutOrStdout()
	PrintSuccess(out, "Scheduler started")
	for name, stat := range sched.GetJobStats() {
		next := "-"
		if stat.NextRun != nil {
			next = stat.NextRun.Format("2006-01-02 15:04:05 MST")
		}
		PrintKeyValue(out, name, fmt.Sprintf("%s (next: %s)", stat.Schedule, next), 10)
	}
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	if scheduleRunNow {
		go func() {
			if _, err := sched.RunJob(job.Name()); err != nil {
				a.log.WithError(err).Error("Immediate run failed")
			}
		}()
	}

	<-ctx.Done()

	fmt.Fprintln(out, "\nShutting down scheduler...")
	sched.Stop()

	for name, stat := range sched.GetJobStats() {
		PrintKeyValue(out, name, fmt.Sprintf("runs %d, success %d, failures %d",
			stat.TotalRuns, stat.SuccessCount, stat.FailureCount), 10)
	}
	return nil
}
