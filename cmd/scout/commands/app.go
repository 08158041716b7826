package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/primogreedy/scout/internal/analyst"
	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/discovery"
	"github.com/primogreedy/scout/internal/external/brave"
	"github.com/primogreedy/scout/internal/external/finnhub"
	"github.com/primogreedy/scout/internal/external/yahoo"
	"github.com/primogreedy/scout/internal/gatekeeper"
	"github.com/primogreedy/scout/internal/ledger"
	"github.com/primogreedy/scout/internal/pipeline"
	"github.com/primogreedy/scout/internal/portfolio"
	"github.com/primogreedy/scout/internal/report"
	"github.com/primogreedy/scout/internal/scoring"
	"github.com/primogreedy/scout/internal/strategyconfig"
	"github.com/primogreedy/scout/pkg/config"
	"github.com/primogreedy/scout/pkg/database"
	"github.com/primogreedy/scout/pkg/httputil"
	"github.com/primogreedy/scout/pkg/logger"
	"github.com/primogreedy/scout/pkg/redis"
)

// app wires the full pipeline once per CLI invocation
type app struct {
	cfg      *config.Config
	strategy *strategyconfig.Config
	log      *logger.Logger

	db  *database.DB
	rdb *redis.Client

	store      ledger.Store
	ledgerRepo *ledger.Repository

	yahoo       *yahoo.Client
	coordinator *pipeline.Coordinator

	formatter *report.Formatter
	sender    report.Sender
	tracker   *portfolio.Tracker

	newOrchestrator func(region contracts.Region) *pipeline.RegionOrchestrator
}

// buildApp assembles the application. The returned closer releases
// database and redis connections.
func buildApp() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg)

	strategyPath := cfg.StrategyFile
	if strategyFile != "" {
		strategyPath = strategyFile
	}
	strategy, err := strategyconfig.LoadOrDefault(strategyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load strategy: %w", err)
	}
	if err := strategyconfig.Validate(strategy); err != nil {
		return nil, nil, fmt.Errorf("invalid strategy: %w", err)
	}
	if hash, err := strategyconfig.Hash(strategy); err == nil {
		log.WithFields(map[string]interface{}{
			"strategy": strategy.Meta.StrategyID,
			"hash":     hash[:12],
		}).Info("Strategy loaded")
	}

	a := &app{cfg: cfg, strategy: strategy, log: log, formatter: report.NewFormatter()}
	closers := make([]func(), 0, 2)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Stores: postgres when configured, in-memory otherwise
	var portfolioStore portfolio.Store
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		closers = append(closers, db.Close)
		a.db = db

		repo := ledger.NewRepository(db.Pool, strategy.LedgerTTL(), log)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			closeAll()
			return nil, nil, err
		}
		a.store = repo
		a.ledgerRepo = repo

		pr := portfolio.NewRepository(db.Pool)
		if err := pr.EnsureSchema(context.Background()); err != nil {
			closeAll()
			return nil, nil, err
		}
		portfolioStore = pr
	} else {
		log.Warn("No database configured, ledger and portfolio are in-memory only")
		a.store = ledger.NewMemoryStore(strategy.LedgerTTL())
		portfolioStore = portfolio.NewMemoryStore()
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	closers = append(closers, func() { rdb.Close() })
	a.rdb = rdb
	limiter := redis.NewRateLimiter(rdb, "scout")

	// Outbound clients, each on its own quota
	yahooHTTP := httputil.New(log).WithLocalLimiter(2, 2)
	braveHTTP := httputil.New(log).
		WithRateLimiter(limiter, redis.RateLimitConfig{Key: "brave", Limit: 1, Window: time.Second}).
		WithLocalLimiter(1, 1)
	finnhubHTTP := httputil.New(log).
		WithRateLimiter(limiter, redis.RateLimitConfig{Key: "finnhub", Limit: 30, Window: time.Minute})

	a.yahoo = yahoo.New(cfg.Yahoo, yahooHTTP, log)
	screener := yahoo.NewScreener(a.yahoo, 20)

	var trending discovery.TrendingFeed
	if cfg.Brave.APIKey != "" {
		trending = brave.New(cfg.Brave, braveHTTP, log)
	} else {
		log.Info("No search API key, using trending page scrape")
		trending = yahoo.NewTrending("", yahooHTTP, log, 20)
	}

	insider := finnhub.New(cfg.Finnhub, finnhubHTTP, log)
	an := analyst.NewOpenRouter(cfg.OpenRouter, insider, log)

	scorer := scoring.NewScorer(strategy.Scoring)
	gate := gatekeeper.New(strategy.Gates)

	a.newOrchestrator = func(region contracts.Region) *pipeline.RegionOrchestrator {
		pool := discovery.NewPoolBuilder(screener, trending, a.yahoo, a.store, time.Now, strategy.Pool, log)
		return pipeline.NewRegionOrchestrator(
			region, pool, scorer, gate, an, a.store, time.Now,
			strategy.Pipeline.MaxAttempts, log)
	}
	a.coordinator = pipeline.NewCoordinator(func(region contracts.Region) pipeline.RegionRunner {
		return a.newOrchestrator(region)
	}, strategy.Pipeline.ConcurrentRuns, log)

	if strategy.Reporting.EmailEnabled && cfg.Resend.APIKey != "" {
		a.sender = report.NewResendSender(cfg.Resend, log)
	}
	a.tracker = portfolio.NewTracker(portfolioStore, a.yahoo, time.Now, log)

	return a, closeAll, nil
}

// regions resolves the run's region list: the --regions flag when
// given, the configured default otherwise. Unknown names fail fast.
func (a *app) regions() ([]contracts.Region, error) {
	names := a.cfg.Regions
	if len(regionsFlag) > 0 {
		names = regionsFlag
	}

	out := make([]contracts.Region, 0, len(names))
	for _, name := range names {
		region, ok := contracts.ParseRegion(name)
		if !ok {
			return nil, fmt.Errorf("unknown region %q", name)
		}
		out = append(out, region)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no regions configured")
	}
	return out, nil
}

// runCycle executes one full discovery cycle: coordinator fan-out,
// portfolio tracking for picks, digest delivery.
func (a *app) runCycle(ctx context.Context, regions []contracts.Region) map[contracts.Region]*contracts.RegionReport {
	reports := a.coordinator.Run(ctx, regions)

	for _, r := range reports {
		if r.Run == nil || r.Run.Accepted == nil {
			continue
		}
		if err := a.tracker.RecordPick(ctx, *r.Run.Accepted); err != nil {
			a.log.WithError(err).WithField("ticker", r.Run.Accepted.Ticker).Warn("Paper trade not recorded")
		}
	}

	report.Deliver(context.Background(), a.sender, a.formatter, reports, time.Now(), a.log)
	return reports
}
