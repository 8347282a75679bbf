package procrun

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cuemby/komodo-core/pkg/actionstate"
	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/metrics"
	"github.com/dop251/goja"
)

// scriptResult is what running an Action's script produces before it's
// folded into the Update: captured console output and whether the
// script itself threw or timed out.
type scriptResult struct {
	logs []string
	err  error
}

// RunAction evaluates actionID's script in a fresh goja sandbox, with
// the Runner's CoreAPI bound in as the `core` global, enforcing the
// Action's configured wall-clock timeout.
func (r *Runner) RunAction(ctx context.Context, actionID, userID string) (*komodo.Update, error) {
	action, err := r.store.GetAction(actionID)
	if err != nil {
		return nil, kerrors.ResourceMissing("action %s: %v", actionID, err)
	}

	guard, err := r.regs.Actions.GetOrInsert(action.ID).Update(actionstate.ActionRunning)
	if err != nil {
		metrics.GuardBusyTotal.WithLabelValues("action").Inc()
		return nil, kerrors.Busy("action %s: %v", action.ID, err)
	}
	defer guard.Release()

	update := r.journal.Make(
		komodo.ResourceTarget{Kind: komodo.KindAction, ID: action.ID},
		komodo.OperationRunAction,
		userID,
		"Executing action: "+action.Name,
	)
	if err := r.journal.Add(update); err != nil {
		return nil, err
	}

	timeoutSeconds := action.Config.TimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultActionTimeoutSeconds
	}
	timeout := time.Duration(timeoutSeconds) * time.Second

	timer := metrics.NewTimer()
	result := r.runScript(action.Config.Script, timeout)
	timer.ObserveDuration(metrics.ActionRunDuration)

	state := komodo.ActionStateOk
	success := result.err == nil
	outcome := "ok"
	if !success {
		state = komodo.ActionStateFailed
		outcome = "failed"
	}
	metrics.ActionRunsTotal.WithLabelValues(outcome).Inc()
	if len(result.logs) > 0 {
		update.PushSimpleLog("console", strings.Join(result.logs, "\n"))
	}
	if result.err != nil {
		update.PushErrorLog("script error", result.err.Error())
	} else {
		update.PushSimpleLog("script", "action completed with no errors")
	}

	action.Info.LastRunAt = time.Now()
	action.Info.State = state
	if err := r.store.PutAction(action); err != nil {
		update.PushErrorLog("cache action state", err.Error())
	}

	if err := r.journal.Finalize(update, success); err != nil {
		return update, err
	}
	return update, nil
}

// runScript evaluates script in a fresh goja runtime on its own
// goroutine, so a script that never returns can still be aborted: the
// timer fires vm.Interrupt from outside, which goja observes at its
// next bytecode instruction boundary.
func (r *Runner) runScript(script string, timeout time.Duration) scriptResult {
	vm := goja.New()
	logs := make([]string, 0)

	console := vm.NewObject()
	_ = console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		logs = append(logs, strings.Join(parts, " "))
		return goja.Undefined()
	})
	_ = vm.Set("console", console)
	_ = vm.Set("core", r.coreAPI)

	done := make(chan error, 1)
	go func() {
		_, err := vm.RunString(script)
		done <- err
	}()

	select {
	case err := <-done:
		return scriptResult{logs: logs, err: err}
	case <-time.After(timeout):
		vm.Interrupt(fmt.Sprintf("action script exceeded %s timeout", timeout))
		<-done
		return scriptResult{logs: logs, err: kerrors.Timeout("action script exceeded %s timeout", timeout)}
	}
}
