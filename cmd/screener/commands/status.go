package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/epscreen/internal/s0_data"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "설정 및 데이터 소스 연결 확인",
	Long: `현재 설정을 출력하고 데이터 소스 연결을 점검합니다.

점검 항목:
- 티커 리스트 파일
- DB (HISTORY_SOURCE/NEWS_SOURCE=postgres)
- Redis rate limiter (REDIS_ENABLED=true)
- 시세/뉴스 제공자 (--probe 티커 1개 조회)

Example:
  go run ./cmd/screener status
  go run ./cmd/screener status --probe AAPL`,
	RunE: runStatus,
}

var (
	statusProbe string
)

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusProbe, "probe", "SPY", "연결 확인용 티커 (빈 값이면 생략)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	PrintHeader(out, "Configuration")
	PrintKeyValue(out, "Env", a.cfg.Env, 14)
	PrintKeyValue(out, "Universe", a.cfg.UniverseFile, 14)
	PrintKeyValue(out, "Output", a.cfg.OutputDir, 14)
	PrintKeyValue(out, "History", a.cfg.HistorySource, 14)
	PrintKeyValue(out, "News", a.cfg.NewsSource, 14)
	PrintKeyValue(out, "Diff", a.cfg.DiffSource, 14)
	PrintKeyValue(out, "Workers", fmt.Sprintf("%d (rate %.2f/s)", a.cfg.Workers, a.cfg.RatePerSec), 14)
	PrintKeyValue(out, "Schedule", a.cfg.ScheduleCron, 14)
	PrintKeyValue(out, "Config hash", a.configHash, 14)

	PrintHeader(out, "Connectivity")
	failures := 0

	diff, err := a.orchestrator.Diff(ctx, a.cfg.UniverseFile)
	if err != nil {
		PrintError(out, fmt.Sprintf("Universe: %v", err))
		failures++
	} else {
		PrintSuccess(out, fmt.Sprintf("Universe: +%d / -%d vs previous", len(diff.Added), len(diff.Removed)))
	}

	if a.db != nil {
		health, err := a.db.HealthCheck(ctx)
		if err != nil {
			PrintError(out, fmt.Sprintf("Database: %v", err))
			failures++
		} else {
			PrintSuccess(out, fmt.Sprintf("Database: %s (%d/%d conns)",
				health.ResponseTime, health.Stats.TotalConns, health.Stats.MaxConns))

			if n, err := s0_data.NewRepository(a.db.Pool).CountTickers(ctx); err != nil {
				PrintError(out, fmt.Sprintf("Database: daily_prices unreadable: %v", err))
				failures++
			} else {
				PrintSuccess(out, fmt.Sprintf("Database: %d tickers with bars", n))
			}
		}
	}

	if a.redis.Enabled() {
		if err := a.redis.Ping(ctx); err != nil {
			PrintError(out, fmt.Sprintf("Redis: %v", err))
			failures++
		} else {
			PrintSuccess(out, "Redis: ok")
		}
	}

	if statusProbe != "" {
		failures += probeProviders(ctx, a, statusProbe, cmd)
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	return nil
}

// probeProviders fetches one ticker from each configured source
func probeProviders(ctx context.Context, a *app, ticker string, cmd *cobra.Command) int {
	out := cmd.OutOrStdout()
	failures := 0

	probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	history, err := a.market.History(probeCtx, ticker, a.screenCfg.Lookback())
	if err != nil {
		PrintError(out, fmt.Sprintf("History (%s): %v", a.cfg.HistorySource, err))
		failures++
	} else if last, ok := history.Latest(); !ok {
		PrintWarning(out, fmt.Sprintf("History (%s): no bars for %s", a.cfg.HistorySource, ticker))
	} else {
		PrintSuccess(out, fmt.Sprintf("History (%s): %d bars, last %s",
			a.cfg.HistorySource, len(history), last.Date.Format("2006-01-02")))
	}

	news, err := a.market.News(probeCtx, ticker)
	if err != nil {
		PrintError(out, fmt.Sprintf("News (%s): %v", a.cfg.NewsSource, err))
		failures++
	} else {
		PrintSuccess(out, fmt.Sprintf("News (%s): %d items", a.cfg.NewsSource, len(news)))
	}

	return failures
}
