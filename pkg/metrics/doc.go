/*
Package metrics provides Prometheus metrics collection and exposition for
Komodo Core.

Metrics are registered at package init against the default Prometheus
registry and exposed via Handler() for scraping.

# Categories

	Resources:   komodo_resources_total{kind}, komodo_servers_total{state}
	Updates:     komodo_updates_total{operation,success}, komodo_update_duration_seconds{operation}
	Dispatch:    komodo_dispatch_total{kind,outcome}, komodo_dispatch_duration_seconds{kind},
	             komodo_batch_execution_size
	Guards:      komodo_guard_busy_total{kind}
	Periphery:   komodo_periphery_requests_total{type,status}, komodo_periphery_request_duration_seconds{type}
	Status:      komodo_status_polls_total{outcome}
	Stacks:      komodo_stack_deploys_total{outcome}, komodo_stack_deploy_duration_seconds
	Procedures:  komodo_procedure_stages_total{outcome}, komodo_action_runs_total{outcome},
	             komodo_action_run_duration_seconds

# Usage

	import "github.com/cuemby/komodo-core/pkg/metrics"

	timer := metrics.NewTimer()
	// ... do work ...
	timer.ObserveDurationVec(metrics.DispatchDuration, string(execution.Kind()))

Collector samples the document store on a 15s tick and publishes the
resource/server gauges. The dispatcher (dispatch, batch size and
guard-busy metrics), the stack controller (guard-busy) and pkg/procrun
(procedure stage, action run and guard-busy metrics) record their own
counters/histograms inline at the call sites that own the outcome. The
update, periphery, status-poll and stack-deploy metrics are registered
and exposed, but nothing in this module records them.

Health and readiness reporting live in health.go, registered per-component
via RegisterComponent/UpdateComponent and served over HealthHandler/
ReadyHandler/LivenessHandler.
*/
package metrics
