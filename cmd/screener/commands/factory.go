package commands

import (
	"context"
	"fmt"

	"github.com/wonny/epscreen/internal/brain"
	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/internal/external/github"
	"github.com/wonny/epscreen/internal/external/gitrepo"
	"github.com/wonny/epscreen/internal/external/polygon"
	"github.com/wonny/epscreen/internal/external/rss"
	"github.com/wonny/epscreen/internal/external/yahoo"
	"github.com/wonny/epscreen/internal/pipeline"
	"github.com/wonny/epscreen/internal/s0_data"
	"github.com/wonny/epscreen/internal/s1_universe"
	"github.com/wonny/epscreen/internal/screenconfig"
	"github.com/wonny/epscreen/pkg/config"
	"github.com/wonny/epscreen/pkg/database"
	"github.com/wonny/epscreen/pkg/httputil"
	"github.com/wonny/epscreen/pkg/logger"
	"github.com/wonny/epscreen/pkg/redis"
)

// app holds everything a command needs for one process
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	screenCfg    screenconfig.Config
	configHash   string
	market       contracts.MarketData
	// db is nil unless a source is postgres
	db           *database.DB
	redis        *redis.Client
	orchestrator *brain.Orchestrator
	closers      []func()
}

// Close releases database and redis connections
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// runConfig returns the run inputs after flag overrides
func (a *app) runConfig() brain.RunConfig {
	return brain.RunConfig{
		UniverseFile: a.cfg.UniverseFile,
		OutputDir:    a.cfg.OutputDir,
	}
}

// loadConfig reads env config and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if screenConfigFile != "" {
		cfg.ScreenConfig = screenConfigFile
	}
	if universeFile != "" {
		cfg.UniverseFile = universeFile
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// newApp wires config → providers → screener → orchestrator
// ⭐ SSOT: 의존성 조립은 여기서만
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// 1. Screen thresholds + keywords
	screenCfg, _, err := screenconfig.Load(cfg.ScreenConfig)
	if err != nil {
		return nil, fmt.Errorf("load screen config: %w", err)
	}
	hash, err := screenconfig.Hash(screenCfg)
	if err != nil {
		return nil, fmt.Errorf("hash screen config: %w", err)
	}
	a.screenCfg = screenCfg
	a.configHash = hash

	// 2. Optional shared rate limiter
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = redisClient
	a.closers = append(a.closers, func() { _ = redisClient.Close() })

	var limiter *redis.RateLimiter
	if redisClient.Enabled() {
		limiter = redis.NewRateLimiter(redisClient)
	}

	// 3. Optional database
	var repo *s0_data.Repository
	if cfg.UsesPostgres() {
		db, err := database.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, db.Close)
		repo = s0_data.NewRepository(db.Pool)
	}

	// 4. Providers
	history, err := historyProvider(cfg, log, limiter, repo)
	if err != nil {
		a.Close()
		return nil, err
	}
	news, err := newsProvider(cfg, log, limiter, repo)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.market = pipeline.CombineProviders(history, news)

	screener := pipeline.NewScreener(
		a.market,
		screenCfg,
		pipeline.Options{Workers: cfg.Workers, RatePerSec: cfg.RatePerSec},
		log,
	)

	// 5. Version history for the diff
	differ := s1_universe.NewDiffer(universeHistory(cfg, log), log)

	a.orchestrator = brain.NewOrchestrator(screener, differ, hash, log)

	log.WithFields(map[string]interface{}{
		"history_source": cfg.HistorySource,
		"news_source":    cfg.NewsSource,
		"diff_source":    cfg.DiffSource,
		"workers":        cfg.Workers,
		"rate_limited":   limiter != nil,
		"config_hash":    hash,
	}).Debug("Application wired")

	return a, nil
}

// sourceClient builds one HTTP client per source so each gets its own limit key
func sourceClient(cfg *config.Config, log *logger.Logger, limiter *redis.RateLimiter, source string) *httputil.Client {
	client := httputil.New(cfg, log)
	if limiter == nil {
		return client
	}
	if rl, ok := redis.RateLimitFor(source); ok {
		client.WithRateLimiter(limiter, rl)
	}
	return client
}

func historyProvider(cfg *config.Config, log *logger.Logger, limiter *redis.RateLimiter, repo *s0_data.Repository) (contracts.HistoryProvider, error) {
	switch cfg.HistorySource {
	case "yahoo":
		return yahoo.NewClient(sourceClient(cfg, log, limiter, "yahoo"), cfg.Yahoo, log), nil
	case "polygon":
		return polygon.NewClient(sourceClient(cfg, log, limiter, "polygon"), cfg.Polygon, log), nil
	case "postgres":
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown history source %q", cfg.HistorySource)
	}
}

func newsProvider(cfg *config.Config, log *logger.Logger, limiter *redis.RateLimiter, repo *s0_data.Repository) (contracts.NewsProvider, error) {
	switch cfg.NewsSource {
	case "yahoo":
		return yahoo.NewClient(sourceClient(cfg, log, limiter, "yahoo"), cfg.Yahoo, log), nil
	case "polygon":
		return polygon.NewClient(sourceClient(cfg, log, limiter, "polygon"), cfg.Polygon, log), nil
	case "rss":
		return rss.NewClient(sourceClient(cfg, log, limiter, "rss"), cfg.RSS, log), nil
	case "postgres":
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown news source %q", cfg.NewsSource)
	}
}

// universeHistory returns nil for "none"; the differ then treats the previous list as empty
func universeHistory(cfg *config.Config, log *logger.Logger) contracts.UniverseHistory {
	switch cfg.DiffSource {
	case "git":
		return gitrepo.New(".", cfg.UniverseFile, log)
	case "github":
		return github.New(cfg.GitHub, cfg.UniverseFile, nil, log)
	default:
		return nil
	}
}
