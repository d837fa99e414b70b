package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/internal/s2_signals"
	"github.com/wonny/epscreen/internal/screenconfig"
	"github.com/wonny/epscreen/internal/selection"
	"github.com/wonny/epscreen/pkg/logger"
)

// Options controls per-run scheduling
type Options struct {
	Workers    int     // 1 = sequential
	RatePerSec float64 // provider calls per second, 0 = unlimited
}

// Screener fetches, measures and scores every ticker of a universe
// ⭐ SSOT: 종목별 처리 (fetch → metrics → news → score)
type Screener struct {
	market   contracts.MarketData
	metrics  *s2_signals.MetricsEngine
	news     *s2_signals.NewsScorer
	scorer   *selection.CompositeScorer
	lookback contracts.Period
	workers  int
	limiter  *rate.Limiter
	now      func() time.Time
	logger   *logger.Logger
}

// tickerResult is one ticker's gathered data; err set means failure
type tickerResult struct {
	metrics   *contracts.MetricResult
	newsScore float64
	err       error
}

// NewScreener wires the scoring components from one immutable config value
func NewScreener(market contracts.MarketData, cfg screenconfig.Config, opts Options, log *logger.Logger) *Screener {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var limiter *rate.Limiter
	if opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}

	log = log.WithField("module", "pipeline")

	return &Screener{
		market:   market,
		metrics:  s2_signals.NewMetricsEngine(cfg.Metrics.ADVWindow, log),
		news:     s2_signals.NewNewsScorer(cfg.Keywords(), cfg.News.LookbackDays, log),
		scorer:   selection.NewCompositeScorer(cfg.Scoring, log),
		lookback: cfg.Lookback(),
		workers:  workers,
		limiter:  limiter,
		now:      time.Now,
		logger:   log,
	}
}

// WithClock overrides the clock used for the news cutoff
func (s *Screener) WithClock(now func() time.Time) *Screener {
	s.now = now
	return s
}

// Screen produces one row per input ticker (duplicates included) in ranking order.
// Per-ticker failures become failure rows. If ctx is cancelled, no new tickers are
// started and the rows finished so far are returned together with ctx.Err().
func (s *Screener) Screen(ctx context.Context, tickers []string) ([]contracts.ScoreRow, error) {
	start := time.Now()
	cutoff := s.news.Cutoff(s.now())

	s.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"workers": s.workers,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Starting screen")

	// 각 작업은 자기 슬롯에만 씀 (동시 append 없음)
	rows := make([]contracts.ScoreRow, len(tickers))
	done := make([]bool, len(tickers))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, ticker := range tickers {
		if ctx.Err() != nil {
			break
		}
		i, ticker := i, ticker
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rows[i] = s.screenOne(ctx, ticker, cutoff)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		partial := make([]contracts.ScoreRow, 0, len(rows))
		for i, ok := range done {
			if ok {
				partial = append(partial, rows[i])
			}
		}
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"completed": len(partial),
			"total":     len(tickers),
		}).Warn("Screen cancelled")
		return selection.Rank(partial), err
	}

	ranked := selection.Rank(rows)
	stats := contracts.CountRows(ranked)

	s.logger.WithFields(map[string]interface{}{
		"total":        stats.Total,
		"scored":       stats.Scored,
		"insufficient": stats.Insufficient,
		"failed":       stats.Failed,
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("Screen completed")

	return ranked, nil
}

// screenOne never panics and never returns an error: failures are rows
func (s *Screener) screenOne(ctx context.Context, ticker string, cutoff time.Time) (row contracts.ScoreRow) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: panic: %v", contracts.ErrProviderFailure, r)
			s.logger.WithError(err).WithField("ticker", ticker).Error("Recovered panic while screening ticker")
			row = contracts.NewFailureRow(ticker, err)
		}
	}()

	res := s.gather(ctx, ticker, cutoff)
	if res.err != nil {
		s.logger.WithError(res.err).WithField("ticker", ticker).Warn("Ticker failed")
	}

	return s.scorer.Row(ticker, res.metrics, res.newsScore, res.err)
}

// gather fetches history, computes metrics, and scores news only when metrics exist
func (s *Screener) gather(ctx context.Context, ticker string, cutoff time.Time) tickerResult {
	if err := s.wait(ctx); err != nil {
		return tickerResult{err: fmt.Errorf("%w: %w", contracts.ErrProviderFailure, err)}
	}
	history, err := s.market.History(ctx, ticker, s.lookback)
	if err != nil {
		return tickerResult{err: fmt.Errorf("%w: history: %w", contracts.ErrProviderFailure, err)}
	}

	metrics, err := s.metrics.Compute(ticker, history)
	if err != nil {
		return tickerResult{err: fmt.Errorf("%w: metrics: %w", contracts.ErrProviderFailure, err)}
	}
	// 히스토리 부족: 뉴스 조회 없이 insufficient 행, 뉴스 장애와 무관
	if metrics == nil {
		return tickerResult{}
	}

	if err := s.wait(ctx); err != nil {
		return tickerResult{err: fmt.Errorf("%w: %w", contracts.ErrProviderFailure, err)}
	}
	items, err := s.market.News(ctx, ticker)
	if err != nil {
		return tickerResult{err: fmt.Errorf("%w: news: %w", contracts.ErrProviderFailure, err)}
	}

	return tickerResult{
		metrics:   metrics,
		newsScore: s.news.Score(ticker, items, cutoff),
	}
}

func (s *Screener) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}
