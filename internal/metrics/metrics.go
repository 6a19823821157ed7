package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the analysis pipeline.
type Metrics struct {
	AnalysesTotal   *prometheus.CounterVec // labels: outcome=cache|fresh|error
	AnalysisErrors  *prometheus.CounterVec // labels: reason
	Recommendations *prometheus.CounterVec // labels: status=parsed|fallback|unavailable
	CacheWriteFails prometheus.Counter
	IndicatorDur    prometheus.Histogram
	RecommendDur    prometheus.Histogram
}

// NewMetrics registers and returns all metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockadvisor_analyses_total",
			Help: "Analysis requests by outcome",
		}, []string{"outcome"}),
		AnalysisErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockadvisor_analysis_errors_total",
			Help: "Failed analyses by reason",
		}, []string{"reason"}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockadvisor_recommendations_total",
			Help: "Recommendation service replies by parse status",
		}, []string{"status"}),
		CacheWriteFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockadvisor_cache_write_failures_total",
			Help: "Result cache writes that failed",
		}),
		IndicatorDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockadvisor_indicator_duration_seconds",
			Help:    "Price fetch plus indicator computation latency",
			Buckets: prometheus.DefBuckets,
		}),
		RecommendDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockadvisor_recommendation_duration_seconds",
			Help:    "Recommendation service latency",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.AnalysisErrors,
		m.Recommendations,
		m.CacheWriteFails,
		m.IndicatorDur,
		m.RecommendDur,
	)
	return m
}
