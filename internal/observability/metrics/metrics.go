// Package metrics records recommendation pipeline metrics with Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "advise_"

	// ResultSuccess and ResultError label completed operations.
	ResultSuccess = "success"
	ResultError   = "error"

	cacheHit  = "hit"
	cacheMiss = "miss"
)

// Recorder holds the pipeline collectors. A nil *Recorder records nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	recommendations    *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	modelLatency       *prometheus.HistogramVec
	aggregationLatency *prometheus.HistogramVec
	promptTokens       *prometheus.HistogramVec
}

// NewRecorder registers the collectors on a private registry.
func NewRecorder() (*Recorder, error) {
	reg := prometheus.NewRegistry()
	return NewRecorderWith(reg, reg)
}

// NewRecorderWith registers the collectors on reg. gatherer is used by WriteTextfile
// and may be nil when the caller exports metrics another way.
func NewRecorderWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) (*Recorder, error) {
	r := &Recorder{
		gatherer: gatherer,
		recommendations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "recommendations_total",
				Help: "Total recommendation requests by type and result",
			},
			[]string{"type", "result"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_lookups_total",
				Help: "Advice cache lookups by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		modelLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "model_latency_seconds",
				Help:    "External advice model latency in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"type", "result"},
		),
		aggregationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "aggregation_latency_seconds",
				Help:    "Financial snapshot aggregation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		promptTokens: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "prompt_estimated_tokens",
				Help:    "Estimated prompt size in tokens",
				Buckets: prometheus.ExponentialBuckets(128, 2, 7),
			},
			[]string{"type"},
		),
	}

	for _, c := range []prometheus.Collector{
		r.recommendations,
		r.cacheLookups,
		r.modelLatency,
		r.aggregationLatency,
		r.promptTokens,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return r, nil
}

// ObserveRecommendation counts a finished recommendation request.
func (r *Recorder) ObserveRecommendation(recType string, err error) {
	if r == nil {
		return
	}
	r.recommendations.WithLabelValues(recType, resultLabel(err)).Inc()
}

// ObserveCacheLookup counts an advice cache hit or miss.
func (r *Recorder) ObserveCacheLookup(recType string, hit bool) {
	if r == nil {
		return
	}
	outcome := cacheMiss
	if hit {
		outcome = cacheHit
	}
	r.cacheLookups.WithLabelValues(recType, outcome).Inc()
}

// ObserveModelCall records the duration of one model invocation.
func (r *Recorder) ObserveModelCall(recType string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.modelLatency.WithLabelValues(recType, resultLabel(err)).Observe(elapsed.Seconds())
}

// ObserveAggregation records the duration of one snapshot aggregation.
func (r *Recorder) ObserveAggregation(elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.aggregationLatency.WithLabelValues(resultLabel(err)).Observe(elapsed.Seconds())
}

// ObservePrompt records the estimated token count of a built prompt.
func (r *Recorder) ObservePrompt(recType string, estimatedTokens int) {
	if r == nil {
		return
	}
	r.promptTokens.WithLabelValues(recType).Observe(float64(estimatedTokens))
}

// WriteTextfile writes the gathered metrics in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || r.gatherer == nil {
		return fmt.Errorf("no metrics gatherer configured")
	}
	if err := prometheus.WriteToTextfile(path, r.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

func resultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
