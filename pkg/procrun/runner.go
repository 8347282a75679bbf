package procrun

import (
	"context"

	"github.com/cuemby/komodo-core/pkg/actionstate"
	"github.com/cuemby/komodo-core/pkg/journal"
	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/metrics"
	"github.com/cuemby/komodo-core/pkg/store"
)

// Dispatch matches pkg/execute.Dispatcher.Dispatch's signature. A
// Procedure stage's children are run back through this callback rather
// than through any code in this package, so a Procedure can contain a
// stack deploy, a deployment restart, or a nested procedure/action
// without this package needing to know how any of those are carried
// out.
type Dispatch func(ctx context.Context, exec komodo.Execution, userID string) (*komodo.Update, error)

// DefaultActionTimeoutSeconds is used when an Action's config doesn't
// set its own.
const DefaultActionTimeoutSeconds = 60

// Runner executes Procedure and Action resources, and satisfies
// pkg/execute's ProcedureRunner interface.
type Runner struct {
	store    *store.DB
	journal  *journal.Journal
	regs     *actionstate.Registries
	dispatch Dispatch
	coreAPI  CoreAPI
}

// New builds a Runner. dispatch is normally (*execute.Dispatcher).Dispatch,
// wired in after the Dispatcher has been constructed with
// SetProcedureRunner to close the cycle.
func New(db *store.DB, j *journal.Journal, regs *actionstate.Registries, dispatch Dispatch) *Runner {
	r := &Runner{store: db, journal: j, regs: regs, dispatch: dispatch}
	r.coreAPI = &storeBackedAPI{store: db, dispatch: dispatch}
	return r
}

// RunProcedure runs every stage of procedureID's Procedure in order,
// stopping at the first stage whose failures aren't tolerated by that
// stage's ContinueOnError flag.
func (r *Runner) RunProcedure(ctx context.Context, procedureID, userID string) (*komodo.Update, error) {
	proc, err := r.store.GetProcedure(procedureID)
	if err != nil {
		return nil, kerrors.ResourceMissing("procedure %s: %v", procedureID, err)
	}

	guard, err := r.regs.Procedures.GetOrInsert(proc.ID).Update(actionstate.ProcedureRunning)
	if err != nil {
		metrics.GuardBusyTotal.WithLabelValues("procedure").Inc()
		return nil, kerrors.Busy("procedure %s: %v", proc.ID, err)
	}
	defer guard.Release()

	update := r.journal.Make(
		komodo.ResourceTarget{Kind: komodo.KindProcedure, ID: proc.ID},
		komodo.OperationRunProcedure,
		userID,
		"Executing procedure: "+proc.Name,
	)
	if err := r.journal.Add(update); err != nil {
		return nil, err
	}

	success := r.runStages(ctx, proc, update, userID)

	if success {
		update.PushSimpleLog("execution ok", "the procedure has completed with no errors")
	} else {
		update.PushErrorLog("execution error", "one or more stages failed")
	}

	if err := r.journal.Finalize(update, success); err != nil {
		return update, err
	}
	return update, nil
}

// runStages executes proc's stages in order, each stage's Executions
// concurrently, returning whether every stage that was run succeeded.
func (r *Runner) runStages(ctx context.Context, proc komodo.Procedure, update *komodo.Update, userID string) bool {
	overall := true
	for _, stage := range proc.Config.Stages {
		stageOk := r.runStage(ctx, stage, update, userID)
		if !stageOk {
			overall = false
			if !stage.ContinueOnError {
				return false
			}
		}
	}
	return overall
}

type childResult struct {
	index   int
	update  *komodo.Update
	err     error
}

// runStage dispatches every Execution in stage concurrently and
// reports whether all of them succeeded. Each child's outcome is
// recorded as a reference log pointing at the child Update's id rather
// than inlining the child's own log lines.
func (r *Runner) runStage(ctx context.Context, stage komodo.ProcedureStage, update *komodo.Update, userID string) bool {
	results := make(chan childResult, len(stage.Executions))
	for i, exec := range stage.Executions {
		go func(i int, exec komodo.Execution) {
			childUpdate, err := r.dispatch(ctx, exec, userID)
			results <- childResult{index: i, update: childUpdate, err: err}
		}(i, exec)
	}

	ok := true
	for range stage.Executions {
		res := <-results
		if res.err != nil {
			ok = false
			update.PushErrorLog("stage "+stage.Name, res.err.Error())
			continue
		}
		if res.update == nil {
			update.PushSimpleLog("stage "+stage.Name, "execution produced no update")
			continue
		}
		if !res.update.Success {
			ok = false
		}
		status := "ok"
		if !res.update.Success {
			status = "failed"
		}
		update.PushSimpleLog("stage "+stage.Name, "child update "+res.update.ID+": "+status)
	}

	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	metrics.ProcedureStagesTotal.WithLabelValues(outcome).Inc()
	return ok
}
