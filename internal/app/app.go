package app

import (
	"context"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"StockAdvisor/internal/advisor"
	"StockAdvisor/internal/cache"
	"StockAdvisor/internal/collector"
	"StockAdvisor/internal/config"
	"StockAdvisor/internal/metrics"
	"StockAdvisor/internal/pipeline"
	"StockAdvisor/internal/recorder"
)

// App holds the long-lived components shared by every entry point.
type App struct {
	Config   *config.Config
	Cache    *cache.Cache
	Recorder recorder.Recorder
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	closers []func() error
}

// Open builds the cache, recorder and metrics from cfg.
func Open(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	if rs, ok := store.(*cache.RedisStore); ok {
		a.closers = append(a.closers, rs.Close)
	}
	log.Printf("[INFO] cache store: %s", store.Name())
	a.Cache = cache.New(store, cfg.Cache.MaxHistory)

	// Init recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			a.Recorder = recorder.NewNoopRecorder()
		} else {
			a.Recorder = sr
		}
	} else {
		a.Recorder = recorder.NewNoopRecorder()
	}
	a.closers = append(a.closers, a.Recorder.Close)

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.NewMetrics(a.Registry)
	return a, nil
}

func newStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		rs, err := cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Key:      cfg.Cache.RedisKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
		return rs, nil
	default:
		return cache.NewFileStore(cfg.Cache.Path), nil
	}
}

// NewFetcher selects the market data provider named in cfg.
func NewFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "financego":
		return collector.NewFinanceGoFetcher()
	case "mock":
		return &collector.MockFetcher{Price: 100}
	default:
		return collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.Timeout)
	}
}

// NewAdvisor builds the recommendation client for cfg.LLM.Provider.
func NewAdvisor(ctx context.Context, cfg *config.Config) (*advisor.Advisor, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	var temperature float32 = config.DefaultTemperature
	if cfg.LLM.Temperature != nil {
		temperature = *cfg.LLM.Temperature
	}

	switch cfg.LLM.Provider {
	case "openai", "":
		return advisor.NewOpenAI(ctx, advisor.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: temperature,
			Timeout:     cfg.LLM.Timeout,
		})
	default:
		return nil, fmt.Errorf("llm provider %q is not supported", cfg.LLM.Provider)
	}
}

// Analyzer wires the full pipeline. It needs the recommendation service
// credentials.
func (a *App) Analyzer(ctx context.Context) (*pipeline.Analyzer, error) {
	adv, err := NewAdvisor(ctx, a.Config)
	if err != nil {
		return nil, err
	}

	fetcher := NewFetcher(a.Config)
	log.Printf("[INFO] data source: %s, model: %s", fetcher.Name(), a.Config.LLM.Model)
	col := collector.NewCollector(fetcher, a.Config.DataSource.LookbackDays)
	return pipeline.NewAnalyzer(col, adv, a.Cache, a.Recorder, a.Metrics), nil
}

// Close releases the recorder and cache connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("[WARN] close: %v", err)
		}
	}
}
