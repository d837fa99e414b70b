package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/epscreen/internal/api"
	"github.com/wonny/epscreen/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                 - Health check
  POST /api/screen             - 스크리닝 실행 ({"write_files": true} 시 파일 작성)
  GET  /api/report?format=html - 마지막 리포트 (프로세스 메모리)
  GET  /api/diff               - 티커 리스트 변경분

Example:
  go run ./cmd/screener api
  go run ./cmd/screener api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	store := &handlers.ReportStore{}
	screenHandler := handlers.NewScreenHandler(a.orchestrator, store, a.cfg.UniverseFile, a.cfg.OutputDir, a.log)
	server := api.New(a.cfg, a.log, api.NewRouter(screenHandler, a.log))

	out := cmd.OutOrStdout()
	PrintSuccess(out, fmt.Sprintf("Server running on http://localhost:%s", a.cfg.Port))
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("api server: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
