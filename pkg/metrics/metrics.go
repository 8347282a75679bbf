package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Resource inventory metrics.
	ResourcesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "komodo_resources_total",
			Help: "Total number of resources by kind",
		},
		[]string{"kind"},
	)

	ServersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "komodo_servers_total",
			Help: "Total number of servers by reachability state",
		},
		[]string{"state"},
	)

	// Update journal metrics.
	UpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "komodo_updates_total",
			Help: "Total number of Updates finalized, by operation and outcome",
		},
		[]string{"operation", "success"},
	)

	UpdateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "komodo_update_duration_seconds",
			Help:    "Time from Update open to finalize in seconds, by operation",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 3600},
		},
		[]string{"operation"},
	)

	// Dispatcher metrics.
	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "komodo_dispatch_total",
			Help: "Total number of Executions dispatched, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	DispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "komodo_dispatch_duration_seconds",
			Help:    "Dispatch latency in seconds, by Execution kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	BatchExecutionSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "komodo_batch_execution_size",
			Help:    "Number of resources matched by a single batch execution pattern",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	// Action-state guard metrics.
	GuardBusyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "komodo_guard_busy_total",
			Help: "Total number of action-state guard acquisitions that failed with Busy",
		},
		[]string{"kind"},
	)

	// Periphery transport metrics.
	PeripheryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "komodo_periphery_requests_total",
			Help: "Total number of Periphery RPC calls by request type and status",
		},
		[]string{"type", "status"},
	)

	PeripheryRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "komodo_periphery_request_duration_seconds",
			Help:    "Periphery RPC call duration in seconds by request type",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	// Status cache metrics.
	StatusPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "komodo_status_polls_total",
			Help: "Total number of server status polls by outcome",
		},
		[]string{"outcome"},
	)

	// Stack orchestrator metrics.
	StackDeploysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "komodo_stack_deploys_total",
			Help: "Total number of stack deploys by outcome",
		},
		[]string{"outcome"},
	)

	StackDeployDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "komodo_stack_deploy_duration_seconds",
			Help:    "Stack deploy duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	// Procedure/Action runner metrics.
	ProcedureStagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "komodo_procedure_stages_total",
			Help: "Total number of procedure stages run, by outcome",
		},
		[]string{"outcome"},
	)

	ActionRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "komodo_action_runs_total",
			Help: "Total number of Action script runs, by outcome",
		},
		[]string{"outcome"},
	)

	ActionRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "komodo_action_run_duration_seconds",
			Help:    "Action script run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)
)

func init() {
	prometheus.MustRegister(
		ResourcesTotal,
		ServersTotal,
		UpdatesTotal,
		UpdateDuration,
		DispatchTotal,
		DispatchDuration,
		BatchExecutionSize,
		GuardBusyTotal,
		PeripheryRequestsTotal,
		PeripheryRequestDuration,
		StatusPollsTotal,
		StackDeploysTotal,
		StackDeployDuration,
		ProcedureStagesTotal,
		ActionRunsTotal,
		ActionRunDuration,
	)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
