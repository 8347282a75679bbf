package execute

import (
	"context"
	"time"

	"github.com/cuemby/komodo-core/pkg/actionstate"
	"github.com/cuemby/komodo-core/pkg/journal"
	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/metrics"
	"github.com/cuemby/komodo-core/pkg/periphery"
	"github.com/cuemby/komodo-core/pkg/stackctl"
	"github.com/cuemby/komodo-core/pkg/store"
)

// Dialer builds a Periphery client for one server.
type Dialer func(server komodo.Server) *periphery.Client

// ProcedureRunner is the subset of pkg/procrun.Runner the dispatcher
// delegates RunProcedure/RunAction to. Declared locally so this package
// does not need to import pkg/procrun's concrete type at construction
// time beyond the one New call in cmd/komodo-core; the indirection
// avoids a pkg/procrun <-> pkg/execute import cycle, since procrun
// dispatches child Executions back through this package.
type ProcedureRunner interface {
	RunProcedure(ctx context.Context, procedureID, userID string) (*komodo.Update, error)
	RunAction(ctx context.Context, actionID, userID string) (*komodo.Update, error)
}

// DefaultConcurrency bounds how many resources a Batch execution
// dispatches at once when the caller doesn't override it.
const DefaultConcurrency = 10

// Dispatcher routes every komodo.Execution variant to completion,
// producing at most one komodo.Update per (non-batch, non-Sleep,
// non-None) call.
type Dispatcher struct {
	store   *store.DB
	journal *journal.Journal
	regs    *actionstate.Registries
	stacks  *stackctl.Controller
	procs   ProcedureRunner
	dial    Dialer
	authz   Authorizer

	concurrency int
}

// New builds a Dispatcher. procs may be nil until pkg/procrun's Runner
// is constructed (it needs a Dispatch callback itself); set it with
// SetProcedureRunner once available.
func New(db *store.DB, j *journal.Journal, regs *actionstate.Registries, stacks *stackctl.Controller, dial Dialer) *Dispatcher {
	return &Dispatcher{
		store:       db,
		journal:     j,
		regs:        regs,
		stacks:      stacks,
		dial:        dial,
		authz:       AllowAll{},
		concurrency: DefaultConcurrency,
	}
}

// SetAuthorizer replaces the stored Authorizer (AllowAll by default).
// Dispatch does not consult it.
func (d *Dispatcher) SetAuthorizer(a Authorizer) { d.authz = a }

// SetProcedureRunner wires the Procedure/Action runner in after
// construction, breaking the pkg/procrun <-> pkg/execute initialization
// cycle (the runner is built with this Dispatcher as its recursive
// dispatch callback).
func (d *Dispatcher) SetProcedureRunner(r ProcedureRunner) { d.procs = r }

// SetConcurrency overrides DefaultConcurrency for Batch fan-out.
func (d *Dispatcher) SetConcurrency(n int) {
	if n > 0 {
		d.concurrency = n
	}
}

// Dispatch routes exec to completion. Sleep and None never produce an
// Update, and Batch is rejected here in favour of DispatchBatch. Other
// variants return their Update once one has been opened, with any later
// failure recorded in it; errors raised before that (missing resource or
// server, Precondition, Busy, unsupported kinds) return a nil Update.
func (d *Dispatcher) Dispatch(ctx context.Context, exec komodo.Execution, userID string) (*komodo.Update, error) {
	switch e := exec.(type) {
	case komodo.Sleep:
		return nil, d.sleep(ctx, e)
	case komodo.None:
		return nil, nil
	case komodo.Batch:
		return nil, errBatchMustUseDispatchBatch
	}

	timer := metrics.NewTimer()
	kind := exec.Kind()
	update, err := d.dispatchOne(ctx, exec, userID)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	} else if update != nil && !update.Success {
		outcome = "failed"
	}
	metrics.DispatchTotal.WithLabelValues(string(kind), outcome).Inc()
	timer.ObserveDurationVec(metrics.DispatchDuration, string(kind))
	return update, err
}

var errBatchMustUseDispatchBatch = kerrors.Precondition("Batch executions must be routed through DispatchBatch")

func (d *Dispatcher) sleep(ctx context.Context, e komodo.Sleep) error {
	dur := time.Duration(e.DurationMS) * time.Millisecond
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return kerrors.Cancelled("sleep cancelled before %dms elapsed", e.DurationMS)
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, exec komodo.Execution, userID string) (*komodo.Update, error) {
	switch e := exec.(type) {
	// --- deployment variants ---
	case komodo.DeployDeployment:
		return d.deployDeployment(ctx, e.Deployment, userID)
	case komodo.PullDeployment:
		return d.pullDeployment(ctx, e.Deployment, userID)
	case komodo.StartDeployment:
		return d.deploymentLifecycle(ctx, e.Deployment, userID, actionstate.DeploymentStarting, komodo.OperationStartResource, deploymentStart)
	case komodo.RestartDeployment:
		return d.deploymentLifecycle(ctx, e.Deployment, userID, actionstate.DeploymentRestarting, komodo.OperationRestartResource, deploymentRestart)
	case komodo.PauseDeployment:
		return d.deploymentLifecycle(ctx, e.Deployment, userID, actionstate.DeploymentPausing, komodo.OperationPauseResource, deploymentPause)
	case komodo.UnpauseDeployment:
		return d.deploymentLifecycle(ctx, e.Deployment, userID, actionstate.DeploymentUnpausing, komodo.OperationUnpauseResource, deploymentUnpause)
	case komodo.StopDeployment:
		return d.deploymentStop(ctx, e, userID)
	case komodo.DestroyDeployment:
		return d.deploymentDestroy(ctx, e, userID)

	// --- stack variants: stackctl already owns guard/journal/finalize ---
	case komodo.DeployStack:
		return d.requireStacks().Deploy(ctx, e.Stack, e.Service, e.StopTime, userID)
	case komodo.DeployStackIfChanged:
		return d.requireStacks().DeployIfChanged(ctx, e.Stack, e.StopTime, userID)
	case komodo.PullStack:
		return d.requireStacks().Pull(ctx, e.Stack, e.Service, userID)
	case komodo.StartStack:
		return d.requireStacks().Start(ctx, e.Stack, e.Service, userID)
	case komodo.RestartStack:
		return d.requireStacks().Restart(ctx, e.Stack, e.Service, userID)
	case komodo.PauseStack:
		return d.requireStacks().Pause(ctx, e.Stack, e.Service, userID)
	case komodo.UnpauseStack:
		return d.requireStacks().Unpause(ctx, e.Stack, e.Service, userID)
	case komodo.StopStack:
		return d.requireStacks().Stop(ctx, e.Stack, e.Service, e.StopTime, userID)
	case komodo.DestroyStack:
		return d.requireStacks().Destroy(ctx, e.Stack, e.Service, e.RemoveOrphans, e.StopTime, userID)

	// --- procedure / action: pkg/procrun owns guard/journal/finalize ---
	case komodo.RunProcedure:
		return d.requireProcs().RunProcedure(ctx, e.Procedure, userID)
	case komodo.RunAction:
		return d.requireProcs().RunAction(ctx, e.Action, userID)

	// --- ad hoc per-server engine operations ---
	case komodo.StartContainer, komodo.RestartContainer, komodo.PauseContainer, komodo.UnpauseContainer,
		komodo.StopContainer, komodo.DestroyContainer,
		komodo.StartAllContainers, komodo.RestartAllContainers, komodo.PauseAllContainers,
		komodo.UnpauseAllContainers, komodo.StopAllContainers,
		komodo.PruneContainers, komodo.PruneNetworks, komodo.PruneImages, komodo.PruneVolumes,
		komodo.PruneDockerBuilders, komodo.PruneBuildx, komodo.PruneSystem,
		komodo.DeleteNetwork, komodo.DeleteImage, komodo.DeleteVolume:
		return d.engineOp(ctx, exec, userID)

	// --- not backed by any resource collection in this build ---
	case komodo.RunBuild, komodo.CancelBuild,
		komodo.CloneRepo, komodo.PullRepo, komodo.BuildRepo, komodo.CancelRepoBuild,
		komodo.RunSync, komodo.CommitSync, komodo.TestAlerter:
		return d.unsupported(exec, userID)

	default:
		return nil, kerrors.Precondition("unhandled execution kind %s", exec.Kind())
	}
}

func (d *Dispatcher) requireStacks() *stackctl.Controller {
	if d.stacks == nil {
		panic("execute: Dispatcher used without a stackctl.Controller")
	}
	return d.stacks
}

func (d *Dispatcher) requireProcs() ProcedureRunner {
	if d.procs == nil {
		panic("execute: Dispatcher used before SetProcedureRunner")
	}
	return d.procs
}

func (d *Dispatcher) guard(reg *actionstate.Registry, kind, id string, flag actionstate.Flags) (*actionstate.Guard, error) {
	guard, err := reg.GetOrInsert(id).Update(flag)
	if err != nil {
		metrics.GuardBusyTotal.WithLabelValues(kind).Inc()
		return nil, kerrors.Busy("resource %s: %v", id, err)
	}
	return guard, nil
}
