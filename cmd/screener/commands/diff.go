package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "티커 리스트 변경분만 조회",
	Long: `현재 티커 리스트와 이전 버전(DIFF_SOURCE)을 집합으로 비교합니다.
시세/뉴스 조회는 하지 않습니다.

Example:
  go run ./cmd/screener diff
  DIFF_SOURCE=github GITHUB_OWNER=me GITHUB_REPO=screens go run ./cmd/screener diff`,
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	diff, err := a.orchestrator.Diff(ctx, a.cfg.UniverseFile)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}

	PrintDiff(cmd.OutOrStdout(), diff)
	return nil
}
