package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Moderation holds the moderation workflow's counters. A nil *Moderation is a no-op,
// so services can run without a registry in tests.
type Moderation struct {
	submissionsTotal *prometheus.CounterVec
	decisionsTotal   *prometheus.CounterVec
	decisionLatency  *prometheus.HistogramVec
	retriesTotal     *prometheus.CounterVec
}

// New registers the moderation metrics on reg.
func New(reg prometheus.Registerer) *Moderation {
	f := promauto.With(reg)
	return &Moderation{
		submissionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moderation",
			Name:      "submissions_total",
			Help:      "Total number of moderation requests submitted.",
		}, []string{"kind", "entity_type"}),
		decisionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moderation",
			Name:      "decisions_total",
			Help:      "Total number of decision attempts by outcome.",
		}, []string{"kind", "outcome"}),
		decisionLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "moderation",
			Name:      "decision_latency_seconds",
			Help:      "Latency distribution for moderation decisions.",
			Buckets: []float64{
				0.005, 0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5,
			},
		}, []string{"kind", "outcome"}),
		retriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moderation",
			Name:      "decision_retries_total",
			Help:      "Decision attempts retried after transient storage contention.",
		}, []string{"kind"}),
	}
}

func (m *Moderation) Submitted(kind, entityType string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(kind, entityType).Inc()
}

func (m *Moderation) Decided(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(kind, outcome).Inc()
	m.decisionLatency.WithLabelValues(kind, outcome).Observe(elapsed.Seconds())
}

func (m *Moderation) Retried(kind string) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(kind).Inc()
}
