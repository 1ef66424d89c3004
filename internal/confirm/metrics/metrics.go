package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the confirmation module.
type Metrics struct {
	// Sessions started by summary message kind
	SessionsStarted *prometheus.CounterVec

	// Candidate or installed lookups that failed
	ResolutionFailures *prometheus.CounterVec

	// Gate transitions: "unlocked" on acknowledgement, "reprompt" on early proceed
	GateTransitions *prometheus.CounterVec

	// Terminal outcomes
	Outcomes *prometheus.CounterVec

	ResolveLatency prometheus.Histogram
}

// New registers the confirmation metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pkgconfirm_sessions_started_total",
			Help: "Confirmation sessions started by summary kind and initial gate state",
		}, []string{"summary", "gate"}),

		ResolutionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pkgconfirm_resolution_failures_total",
			Help: "Package resolution failures by stage",
		}, []string{"stage"}), // stage: "candidate", "canonical", "installed"

		GateTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pkgconfirm_gate_transitions_total",
			Help: "Acknowledgement gate transitions",
		}, []string{"transition"}),

		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pkgconfirm_outcomes_total",
			Help: "Terminal confirmation outcomes",
		}, []string{"outcome"}),

		ResolveLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pkgconfirm_resolve_duration_seconds",
			Help:    "Duration of candidate, canonical and installed resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementStarted(summary, gate string) {
	if m != nil {
		m.SessionsStarted.WithLabelValues(summary, gate).Inc()
	}
}

func (m *Metrics) IncrementResolutionFailure(stage string) {
	if m != nil {
		m.ResolutionFailures.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) IncrementTransition(transition string) {
	if m != nil {
		m.GateTransitions.WithLabelValues(transition).Inc()
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveResolveLatency(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}
