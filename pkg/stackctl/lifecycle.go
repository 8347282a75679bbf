package stackctl

import (
	"context"

	"github.com/cuemby/komodo-core/pkg/actionstate"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/periphery"
)

// Pull runs ComposePull for stack under the "pulling" flag. It deploys
// nothing and refreshes no cached server or stack state.
func (c *Controller) Pull(ctx context.Context, stackID, service, userID string) (*komodo.Update, error) {
	stack, server, err := c.resolve(stackID)
	if err != nil {
		return nil, err
	}

	guard, err := c.guard(stack.ID, flagPulling)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	update := c.journal.Make(komodo.ResourceTarget{Kind: komodo.KindStack, ID: stack.ID}, komodo.OperationPullStack, userID, "")
	if service != "" {
		update.PushLog(serviceRequestedLog(service))
	}
	if err := c.journal.Add(update); err != nil {
		return nil, err
	}

	client := c.dial(server)
	logs, err := client.ComposePull(ctx, periphery.ComposePullParams{Stack: stack.Name, Service: service})
	for _, l := range logs {
		update.PushLog(l)
	}
	if err != nil {
		update.PushErrorLog("compose pull", err.Error())
		c.journal.Finalize(update, false)
		return update, err
	}

	if err := c.journal.Finalize(update, allLogsSucceeded(logs)); err != nil {
		return update, err
	}
	return update, nil
}

type lifecycleOp struct {
	flag      actionstate.Flags
	operation komodo.Operation
	call      func(*periphery.Client, context.Context, periphery.ComposeLifecycleParams) ([]komodo.Log, error)
}

func (c *Controller) runLifecycle(ctx context.Context, op lifecycleOp, stackID, service string, stopTime *int, userID string) (*komodo.Update, error) {
	stack, server, err := c.resolve(stackID)
	if err != nil {
		return nil, err
	}

	guard, err := c.guard(stack.ID, op.flag)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	update := c.journal.Make(komodo.ResourceTarget{Kind: komodo.KindStack, ID: stack.ID}, op.operation, userID, "")
	if service != "" {
		update.PushLog(serviceRequestedLog(service))
	}
	if err := c.journal.Add(update); err != nil {
		return nil, err
	}

	client := c.dial(server)
	logs, err := op.call(client, ctx, periphery.ComposeLifecycleParams{Stack: stack.Name, Service: service, StopTime: stopTime})
	for _, l := range logs {
		update.PushLog(l)
	}
	if err != nil {
		update.PushErrorLog(string(op.operation), err.Error())
		c.journal.Finalize(update, false)
		return update, err
	}

	if err := c.journal.Finalize(update, allLogsSucceeded(logs)); err != nil {
		return update, err
	}
	return update, nil
}

func (c *Controller) Start(ctx context.Context, stackID, service, userID string) (*komodo.Update, error) {
	return c.runLifecycle(ctx, lifecycleOp{
		flag:      flagStarting,
		operation: komodo.OperationStartResource,
		call: func(cl *periphery.Client, ctx context.Context, p periphery.ComposeLifecycleParams) ([]komodo.Log, error) {
			return cl.ComposeStart(ctx, p)
		},
	}, stackID, service, nil, userID)
}

func (c *Controller) Restart(ctx context.Context, stackID, service, userID string) (*komodo.Update, error) {
	return c.runLifecycle(ctx, lifecycleOp{
		flag:      flagRestarting,
		operation: komodo.OperationRestartResource,
		call: func(cl *periphery.Client, ctx context.Context, p periphery.ComposeLifecycleParams) ([]komodo.Log, error) {
			return cl.ComposeRestart(ctx, p)
		},
	}, stackID, service, nil, userID)
}

func (c *Controller) Pause(ctx context.Context, stackID, service, userID string) (*komodo.Update, error) {
	return c.runLifecycle(ctx, lifecycleOp{
		flag:      flagPausing,
		operation: komodo.OperationPauseResource,
		call: func(cl *periphery.Client, ctx context.Context, p periphery.ComposeLifecycleParams) ([]komodo.Log, error) {
			return cl.ComposePause(ctx, p)
		},
	}, stackID, service, nil, userID)
}

func (c *Controller) Unpause(ctx context.Context, stackID, service, userID string) (*komodo.Update, error) {
	return c.runLifecycle(ctx, lifecycleOp{
		flag:      flagUnpausing,
		operation: komodo.OperationUnpauseResource,
		call: func(cl *periphery.Client, ctx context.Context, p periphery.ComposeLifecycleParams) ([]komodo.Log, error) {
			return cl.ComposeUnpause(ctx, p)
		},
	}, stackID, service, nil, userID)
}

func (c *Controller) Stop(ctx context.Context, stackID, service string, stopTime *int, userID string) (*komodo.Update, error) {
	return c.runLifecycle(ctx, lifecycleOp{
		flag:      flagStopping,
		operation: komodo.OperationStopResource,
		call: func(cl *periphery.Client, ctx context.Context, p periphery.ComposeLifecycleParams) ([]komodo.Log, error) {
			return cl.ComposeStop(ctx, p)
		},
	}, stackID, service, stopTime, userID)
}

// Destroy tears down the stack's compose project, optionally removing
// orphaned containers, under the "destroying" flag.
func (c *Controller) Destroy(ctx context.Context, stackID, service string, removeOrphans bool, stopTime *int, userID string) (*komodo.Update, error) {
	stack, server, err := c.resolve(stackID)
	if err != nil {
		return nil, err
	}

	guard, err := c.guard(stack.ID, flagDestroying)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	update := c.journal.Make(komodo.ResourceTarget{Kind: komodo.KindStack, ID: stack.ID}, komodo.OperationDestroyResource, userID, "")
	if service != "" {
		update.PushLog(serviceRequestedLog(service))
	}
	if err := c.journal.Add(update); err != nil {
		return nil, err
	}

	client := c.dial(server)
	logs, err := client.ComposeDestroy(ctx, periphery.ComposeDestroyParams{
		Stack:         stack.Name,
		Service:       service,
		RemoveOrphans: removeOrphans,
		StopTime:      stopTime,
	})
	for _, l := range logs {
		update.PushLog(l)
	}
	if err != nil {
		update.PushErrorLog("compose destroy", err.Error())
		c.journal.Finalize(update, false)
		return update, err
	}

	if err := c.journal.Finalize(update, allLogsSucceeded(logs)); err != nil {
		return update, err
	}
	return update, nil
}
