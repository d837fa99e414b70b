package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "스크리닝 실행 + 리포트 생성",
	Long: `티커 리스트 전체를 스크리닝하고 리포트를 생성합니다.

이 명령어는:
- 티커 리스트 로드 (읽기 실패 시 즉시 종료, 출력 없음)
- 이전 버전 대비 Added/Removed 계산
- 종목별 갭/거래량/뉴스 점수 계산 및 순위 정렬
- ep_report.json + ep_report.html 작성

Example:
  go run ./cmd/screener run
  go run ./cmd/screener run --universe qm1w.txt --output site
  go run ./cmd/screener run --no-files`,
	RunE: runScreen,
}

var (
	runNoFiles bool
	runQuiet   bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runNoFiles, "no-files", false, "리포트 파일 작성 생략")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "콘솔 테이블 출력 생략")
}

// signalContext is cancelled on Ctrl+C / SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runScreen(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	runCfg := a.runConfig()
	if runNoFiles {
		runCfg.OutputDir = ""
	}

	result, err := a.orchestrator.Run(ctx, runCfg)
	if err != nil {
		PrintError(os.Stderr, err.Error())
		return fmt.Errorf("screen run: %w", err)
	}

	out := cmd.OutOrStdout()
	if !runQuiet {
		PrintReport(out, result.Report)
	}

	if result.Paths.JSON != "" {
		fmt.Fprintln(out)
		PrintSuccess(out, fmt.Sprintf("Wrote %s", result.Paths.JSON))
		PrintSuccess(out, fmt.Sprintf("Wrote %s", result.Paths.HTML))
	}
	PrintSuccess(out, fmt.Sprintf("Completed in %.2fs", result.Duration.Seconds()))

	return nil
}
