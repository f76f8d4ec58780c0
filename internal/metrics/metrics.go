// Package metrics provides Prometheus metrics for the matchup analyzer.
//
// The analyzer is a batch CLI, so metrics are exported through the node
// exporter textfile format rather than an HTTP endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup results recorded by RecordLookup.
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultAbsent  = "absent"
	ResultInvalid = "invalid"
)

// Option applies a configuration option to the Metrics.
type Option func(*Metrics)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Metrics) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Metrics) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// Metrics holds the analyzer's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	lookups          *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	games            *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	triggersFired    *prometheus.CounterVec
	recommendations  *prometheus.CounterVec
}

// New creates the collectors on a private registry unless WithRegistry is given.
func New(opts ...Option) *Metrics {
	m := &Metrics{
		namespace: "matchup",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.lookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "table",
		Name:      "lookups_total",
		Help:      "Name lookups by dataset and result (hit, miss, absent dataset, invalid schema)",
	}, []string{"dataset", "result"})

	m.cacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "table",
		Name:      "lookup_cache_hits_total",
		Help:      "Lookups answered from the memo cache",
	}, []string{"dataset"})

	m.games = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "pipeline",
		Name:      "games_total",
		Help:      "Analyzed games by outcome",
	}, []string{"status"})

	m.analysisDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "pipeline",
		Name:      "game_duration_seconds",
		Help:      "Wall time spent analyzing one game",
		Buckets:   prometheus.DefBuckets,
	})

	m.triggersFired = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "triggers_fired_total",
		Help:      "Game triggers that evaluated true",
	}, []string{"trigger"})

	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "recommendations_total",
		Help:      "Recommendations emitted by rule",
	}, []string{"rule"})

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordLookup counts one lookup against dataset.
func (m *Metrics) RecordLookup(dataset, result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(dataset, result).Inc()
}

// RecordCacheHit counts a memoized lookup.
func (m *Metrics) RecordCacheHit(dataset string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(dataset).Inc()
}

// RecordGame counts a finished game analysis and its duration.
func (m *Metrics) RecordGame(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.games.WithLabelValues(status).Inc()
	m.analysisDuration.Observe(elapsed.Seconds())
}

// RecordTriggers counts every trigger that fired.
func (m *Metrics) RecordTriggers(triggers map[string]bool) {
	if m == nil {
		return
	}
	for name, fired := range triggers {
		if fired {
			m.triggersFired.WithLabelValues(name).Inc()
		}
	}
}

// RecordRecommendation counts one emitted recommendation.
func (m *Metrics) RecordRecommendation(rule string) {
	if m == nil {
		return
	}
	m.recommendations.WithLabelValues(rule).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
