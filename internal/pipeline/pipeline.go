package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"StockAdvisor/internal/cache"
	"StockAdvisor/internal/collector"
	"StockAdvisor/internal/metrics"
	"StockAdvisor/internal/model"
	"StockAdvisor/internal/recorder"
)

// ErrInvalidTicker is returned for blank ticker input.
var ErrInvalidTicker = errors.New("invalid ticker")

// IndicatorSource produces indicators for a ticker.
type IndicatorSource interface {
	Indicators(ctx context.Context, ticker string) (*model.Indicators, error)
}

// Recommender turns indicators into a recommendation. It must not fail.
type Recommender interface {
	Recommend(ctx context.Context, ind *model.Indicators) model.RecommendationResult
}

// Analyzer runs the cache-lookup, fetch, compute, recommend, cache-write sequence.
type Analyzer struct {
	Source   IndicatorSource
	Advisor  Recommender
	Cache    *cache.Cache
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics

	group singleflight.Group
}

// NewAnalyzer wires an Analyzer. A nil recorder or metrics gets a no-op stand-in.
func NewAnalyzer(src IndicatorSource, adv Recommender, c *cache.Cache, rec recorder.Recorder, m *metrics.Metrics) *Analyzer {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if m == nil {
		m = metrics.NewMetrics(prometheus.NewRegistry())
	}
	return &Analyzer{Source: src, Advisor: adv, Cache: c, Recorder: rec, Metrics: m}
}

// NormalizeTicker trims and upper-cases user input.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Analyze returns the analysis for ticker, from cache when present.
// Concurrent calls for the same ticker share one computation. The shared
// computation is detached from any single caller's cancellation; each caller
// stops waiting when its own ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, ticker string) (*model.AnalysisResult, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, ErrInvalidTicker
	}

	shared := context.WithoutCancel(ctx)
	ch := a.group.DoChan(ticker, func() (interface{}, error) {
		return a.analyze(shared, ticker)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res := *r.Val.(*model.AnalysisResult)
		return &res, nil
	}
}

func (a *Analyzer) analyze(ctx context.Context, ticker string) (*model.AnalysisResult, error) {
	start := time.Now()

	if cached, ok := a.Cache.GetCachedResult(ctx, ticker); ok {
		log.Printf("[INFO] using cached analysis for %s", ticker)
		a.Metrics.AnalysesTotal.WithLabelValues(recorder.OutcomeCache).Inc()
		a.record(&recorder.AnalysisEvent{
			Ticker:     ticker,
			Outcome:    recorder.OutcomeCache,
			Action:     string(cached.Recommendation.Action),
			Confidence: cached.Recommendation.Confidence,
			Duration:   time.Since(start),
		})
		return cached, nil
	}

	log.Printf("[INFO] fetching fresh data for %s", ticker)
	t0 := time.Now()
	ind, err := a.Source.Indicators(ctx, ticker)
	a.Metrics.IndicatorDur.Observe(time.Since(t0).Seconds())
	if err != nil {
		log.Printf("[ERROR] analyze %s: %v", ticker, err)
		a.Metrics.AnalysesTotal.WithLabelValues(recorder.OutcomeError).Inc()
		a.Metrics.AnalysisErrors.WithLabelValues(errorReason(err)).Inc()
		a.record(&recorder.AnalysisEvent{
			Ticker:   ticker,
			Outcome:  recorder.OutcomeError,
			Error:    err.Error(),
			Duration: time.Since(start),
		})
		return nil, err
	}

	t0 = time.Now()
	rec := a.Advisor.Recommend(ctx, ind)
	a.Metrics.RecommendDur.Observe(time.Since(t0).Seconds())
	a.Metrics.Recommendations.WithLabelValues(rec.Status.String()).Inc()

	result := Assemble(ind, rec.Recommendation)

	// An outage reply would otherwise be served from cache forever.
	if rec.Status == model.StatusUnavailable {
		log.Printf("[WARN] not caching %s: recommendation service unavailable", ticker)
	} else if err := a.Cache.StoreResult(ctx, ticker, result); err != nil {
		log.Printf("[ERROR] cache result for %s: %v", ticker, err)
		a.Metrics.CacheWriteFails.Inc()
	}

	a.Metrics.AnalysesTotal.WithLabelValues(recorder.OutcomeFresh).Inc()
	a.record(&recorder.AnalysisEvent{
		Ticker:     ticker,
		Outcome:    recorder.OutcomeFresh,
		Action:     string(rec.Recommendation.Action),
		Confidence: rec.Recommendation.Confidence,
		RecStatus:  rec.Status.String(),
		Duration:   time.Since(start),
	})
	return result, nil
}

func (a *Analyzer) record(evt *recorder.AnalysisEvent) {
	evt.Time = time.Now()
	if err := a.Recorder.RecordAnalysis(evt); err != nil {
		log.Printf("[ERROR] record analysis %s: %v", evt.Ticker, err)
	}
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, collector.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, collector.ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "other"
	}
}

// Assemble builds the user-facing record from indicators and a recommendation.
func Assemble(ind *model.Indicators, rec model.Recommendation) *model.AnalysisResult {
	return &model.AnalysisResult{
		Ticker:         ind.Ticker,
		LastPrice:      model.FormatNumber(ind.LastPrice),
		SMA20:          model.FormatNumber(ind.SMA20),
		SMA50:          model.FormatNumber(ind.SMA50),
		RSI:            model.FormatRSI(ind.RSI14),
		Recommendation: rec,
		ChartData:      []model.ChartPoint{},
	}
}
