package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags (override the matching environment variables)
	screenConfigFile string
	universeFile     string
	outputDir        string
	verbose          bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "EP Screener - 일간 Episodic Pivot 스크리너",
	Long: `EP Screener Unified CLI

티커 리스트를 읽어 갭/거래량/뉴스 기반 EP 점수를 계산하고
순위가 매겨진 JSON + HTML 리포트를 생성합니다.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener run
  go run ./cmd/screener run --universe qm1w.txt --output site
  go run ./cmd/screener diff
  go run ./cmd/screener api --port 8089
  go run ./cmd/screener schedule
  go run ./cmd/screener status`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&screenConfigFile, "config", "", "screen YAML (default: SCREEN_CONFIG or built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&universeFile, "universe", "", "ticker list file (default: UNIVERSE_FILE)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "report output directory (default: OUTPUT_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
