package mcp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gnana997/shapespec/pkg/mcplog"
)

// Metrics are the Prometheus collectors the server updates. A nil *Metrics
// records nothing.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shapespec_resolutions_total",
				Help: "Tool calls by tool and outcome (ok or error kind).",
			},
			[]string{"tool", "outcome"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shapespec_cache_lookups_total",
				Help: "resolve_shape cache lookups by result.",
			},
			[]string{"result"},
		),
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shapespec_resolve_duration_seconds",
				Help:    "Duration of tool calls.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"tool"},
		),
	}
	for _, c := range []prometheus.Collector{m.Resolutions, m.CacheLookups, m.ResolveDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeCall(tool string, kind mcplog.ErrorKind, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if kind != "" {
		outcome = string(kind)
	}
	m.Resolutions.WithLabelValues(tool, outcome).Inc()
	m.ResolveDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

func (m *Metrics) observeCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
