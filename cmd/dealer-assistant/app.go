package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dealer-assistant/internal/common/config"
	"dealer-assistant/internal/common/database"
	"dealer-assistant/internal/common/llm"
	"dealer-assistant/internal/common/loader"
	"dealer-assistant/internal/common/logger"
	"dealer-assistant/internal/common/metrics"
	"dealer-assistant/internal/common/observability"
	"dealer-assistant/internal/common/server"
	"dealer-assistant/internal/common/store"
	"dealer-assistant/internal/common/turnlog"
	buildprompt "dealer-assistant/internal/workers/assistant/build-prompt"
)

// app holds everything one process wires together.
type app struct {
	cfg       *config.Config
	zapLog    *zap.Logger
	log       logger.Logger
	records   *store.Store
	turns     turnlog.Log
	assistant *buildprompt.Handler
	obs       *observability.Observability
	checks    map[string]server.ReadyCheck
	closers   []func() error
}

type appOptions struct {
	offline bool
}

func loadConfig(opts appOptions) (*config.Config, error) {
	var loadOpts []config.LoadOption
	if opts.offline {
		loadOpts = append(loadOpts, config.WithoutLLM())
	}
	if configPath != "" {
		return config.LoadFromFile(configPath, loadOpts...)
	}
	return config.Load(loadOpts...)
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	a := &app{
		cfg:    cfg,
		zapLog: zapLog,
		log: logger.NewZapAdapter(zapLog).With(map[string]interface{}{
			"app":         cfg.App.Name,
			"environment": cfg.App.Environment,
		}),
		checks: make(map[string]server.ReadyCheck),
	}

	a.records = a.loadStore(ctx)
	metrics.RecordsLoaded.WithLabelValues(loader.KindLeads).Set(float64(len(a.records.Leads())))
	metrics.RecordsLoaded.WithLabelValues(loader.KindInquiries).Set(float64(len(a.records.Inquiries())))

	turns, err := a.openTurnLog(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.turns = turns

	var gateway llm.Gateway
	if !opts.offline {
		gateway, err = llm.New(cfg.LLM)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.obs = observability.New(cfg.App.Name, nil, a.log)
	a.closers = append(a.closers, func() error { a.obs.Shutdown(); return nil })

	a.assistant = buildprompt.NewHandler(
		&buildprompt.Config{
			SystemInstruction: buildprompt.DefaultSystemInstruction,
			FallbackMessage:   buildprompt.DefaultFallbackMessage,
			Timeout:           config.GetDuration(cfg.LLM.Timeout),
			CacheSize:         cfg.Cache.ContextSize,
		},
		a.records, gateway, a.turns, &buildPromptLoggerAdapter{a.log},
	).WithObservability(a.obs)

	return a, nil
}

// loadStore never fails: an unreachable source degrades to an empty store.
func (a *app) loadStore(ctx context.Context) *store.Store {
	ds := a.cfg.Datasets
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(ds.LoadTimeout))
	defer cancel()

	var l loader.Loader
	switch ds.Source {
	case config.SourcePostgres:
		pg, err := database.NewPostgres(a.cfg.Database.Postgres)
		if err != nil {
			a.log.Warn("postgres unavailable, starting with empty store", map[string]interface{}{"error": err.Error()})
			return store.Empty()
		}
		defer pg.Close()

		if err := retryWithBackoff(ctx, func() error {
			return pg.Ping(ctx)
		}, 5, 500*time.Millisecond, a.log, "PostgreSQL connection"); err != nil {
			a.log.Warn("postgres unavailable, starting with empty store", map[string]interface{}{"error": err.Error()})
			return store.Empty()
		}
		l = loader.NewPostgresLoader(pg.DB, ds.LeadsName, ds.InquiriesName, ds.MaxRecords, a.log)

	case config.SourceElasticsearch:
		es, err := database.NewElasticsearch(a.cfg.Database.Elasticsearch)
		if err != nil {
			a.log.Warn("elasticsearch unavailable, starting with empty store", map[string]interface{}{"error": err.Error()})
			return store.Empty()
		}

		if err := retryWithBackoff(ctx, func() error {
			return es.Ping(ctx)
		}, 5, 500*time.Millisecond, a.log, "Elasticsearch connection"); err != nil {
			a.log.Warn("elasticsearch unavailable, starting with empty store", map[string]interface{}{"error": err.Error()})
			return store.Empty()
		}
		l = loader.NewElasticsearchLoader(es.Client, ds.LeadsIndex, ds.InquiriesIndex, ds.MaxRecords, a.log)

	default:
		l = loader.NewFileLoader(ds.SearchPaths, ds.LeadsName, ds.InquiriesName, a.log)
	}

	return store.FromDatasets(l.Load(ctx))
}

func (a *app) openTurnLog(ctx context.Context) (turnlog.Log, error) {
	if a.cfg.TurnLog.Backend != config.TurnLogRedis {
		return turnlog.NewMemoryLog(), nil
	}

	rdb := database.NewRedis(a.cfg.Database.Redis)
	err := retryWithBackoff(ctx, func() error {
		return rdb.Ping(ctx)
	}, 5, 500*time.Millisecond, a.log, "Redis connection")
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis turn log unavailable: %w", err)
	}

	a.closers = append(a.closers, rdb.Close)
	a.checks["redis"] = rdb.Ping
	a.log.Info("Redis connected successfully", nil)
	return turnlog.NewRedisLog(rdb.Client, a.cfg.TurnLog.Key), nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = a.zapLog.Sync()
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, i+1, err)
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// buildPromptLoggerAdapter satisfies the handler's own Logger interface.
type buildPromptLoggerAdapter struct {
	logger.Logger
}

func (a *buildPromptLoggerAdapter) With(fields map[string]interface{}) buildprompt.Logger {
	return &buildPromptLoggerAdapter{a.Logger.With(fields)}
}
