package translation

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "quill"

// Metrics counts client outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "translation",
			Name:      "requests_total",
			Help:      "Translation requests by outcome (cache_hit, translated or an error kind).",
		}, []string{"provider", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "translation",
			Name:      "provider_latency_seconds",
			Help:      "Latency of remote provider calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"provider"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, collector := range []prometheus.Collector{m.requests, m.providerLatency} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register translation metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observe(provider, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) observeLatency(provider string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}
