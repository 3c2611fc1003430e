package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/w0fv1/GamblerSimulation/sim"
)

// Metrics holds the Prometheus collectors for simulation runs.
//
// Usage:
//
//	reg := prometheus.NewRegistry()
//	metrics := NewMetrics(reg)
//	metrics.RunStarted()
type Metrics struct {
	// RunsStarted counts accepted start commands.
	RunsStarted prometheus.Counter

	// RunsFinished counts runs by final state.
	// Labels: state (completed|aborted|failed)
	RunsFinished *prometheus.CounterVec

	// RunsRejected counts start commands refused for an invalid configuration.
	RunsRejected prometheus.Counter

	// ActiveRuns is the number of runs currently in flight.
	ActiveRuns prometheus.Gauge

	// LevelsCompleted counts emitted result events.
	LevelsCompleted prometheus.Counter

	// Trials counts finished trials across all runs.
	Trials prometheus.Counter

	// TruncatedTrials counts trials stopped by the step guard.
	TruncatedTrials prometheus.Counter

	// LevelDuration measures the time from a level's progress event to its result.
	// Buckets: 1ms .. ~65s, exponential
	LevelDuration prometheus.Histogram
}

// NewMetrics registers all collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gambler_runs_started_total",
			Help: "Total simulation runs started",
		}),
		RunsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gambler_runs_finished_total",
			Help: "Total simulation runs finished, by final state",
		}, []string{"state"}),
		RunsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "gambler_runs_rejected_total",
			Help: "Total start commands rejected for invalid configuration",
		}),
		ActiveRuns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gambler_runs_active",
			Help: "Simulation runs currently in flight",
		}),
		LevelsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gambler_levels_completed_total",
			Help: "Total balance levels with an emitted result",
		}),
		Trials: factory.NewCounter(prometheus.CounterOpts{
			Name: "gambler_trials_total",
			Help: "Total ruin trials finished",
		}),
		TruncatedTrials: factory.NewCounter(prometheus.CounterOpts{
			Name: "gambler_truncated_trials_total",
			Help: "Total ruin trials stopped by the step guard",
		}),
		LevelDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gambler_level_duration_seconds",
			Help:    "Wall-clock time to simulate one balance level",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 9),
		}),
	}
}

// RunStarted records an accepted run.
func (m *Metrics) RunStarted() {
	m.RunsStarted.Inc()
	m.ActiveRuns.Inc()
}

// RunRejected records a refused start command.
func (m *Metrics) RunRejected() {
	m.RunsRejected.Inc()
}

// LevelDone records one result event.
func (m *Metrics) LevelDone(agg sim.AggregateResult, seconds float64) {
	m.LevelsCompleted.Inc()
	m.Trials.Add(float64(agg.Trials))
	m.TruncatedTrials.Add(float64(agg.Truncated))
	m.LevelDuration.Observe(seconds)
}

// RunFinished records a run reaching a terminal state.
func (m *Metrics) RunFinished(state sim.State) {
	m.ActiveRuns.Dec()
	m.RunsFinished.WithLabelValues(state.String()).Inc()
}
