package orchestrator

import "github.com/prometheus/client_golang/prometheus"

// Execution metrics, exposed on /metrics by the serve command.
var (
	// stepsTotal records executed steps.
	// Labels:
	//   - capability: Capability name that ran the step
	//   - status: "completed" or "failed"
	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandem_steps_total",
			Help: "Total number of executed plan steps",
		},
		[]string{"capability", "status"},
	)

	// stepDuration records step execution durations.
	// Labels:
	//   - capability: Capability name that ran the step
	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tandem_step_duration_seconds",
			Help:    "Duration of plan step executions in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"capability"},
	)

	// wavesTotal records scheduled execution waves.
	wavesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tandem_waves_total",
			Help: "Total number of scheduled execution waves",
		},
	)

	// runsTotal records top-level orchestrator runs.
	// Labels:
	//   - mode: "full" or "iterative"
	//   - status: "ok" or "error"
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandem_runs_total",
			Help: "Total number of orchestrator runs",
		},
		[]string{"mode", "status"},
	)
)

func init() {
	prometheus.MustRegister(stepsTotal)
	prometheus.MustRegister(stepDuration)
	prometheus.MustRegister(wavesTotal)
	prometheus.MustRegister(runsTotal)
}
