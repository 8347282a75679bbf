package stackctl

import (
	"context"

	"github.com/cuemby/komodo-core/pkg/actionstate"
	"github.com/cuemby/komodo-core/pkg/interpolate"
	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/periphery"
)

const (
	flagDeploying actionstate.Flags = 1 << iota
	flagPulling
	flagStarting
	flagRestarting
	flagPausing
	flagUnpausing
	flagStopping
	flagDestroying
)

// secretReplacerMap converts an Interpolator's secret replacer set into
// the value->placeholder map Periphery uses to redact its own command
// logs before returning them.
func secretReplacerMap(replacers []interpolate.Replacer) map[string]string {
	if len(replacers) == 0 {
		return nil
	}
	m := make(map[string]string, len(replacers))
	for _, r := range replacers {
		m[r.Value] = r.Placeholder
	}
	return m
}

// interpolateStack expands variables and secrets into a stack's compose
// file contents, environment, and extra args in place, returning the
// secret replacer set to forward to Periphery and an interpolation
// summary log, unless the stack opted out via SkipSecretInterp.
func (c *Controller) interpolateStack(stack *komodo.Stack, update *komodo.Update) ([]interpolate.Replacer, error) {
	if stack.Config.SkipSecretInterp {
		return nil, nil
	}
	vars, err := c.store.ListVariables()
	if err != nil {
		return nil, kerrors.PersistenceFailure(err, "list variables for interpolation")
	}
	interp := interpolate.New(vars)

	expanded, err := interp.Expand(stack.Config.FileContents)
	if err != nil {
		return nil, kerrors.InterpolateUnknown("stack %s file contents: %v", stack.ID, err)
	}
	stack.Config.FileContents = expanded

	expanded, err = interp.Expand(stack.Config.Environment)
	if err != nil {
		return nil, kerrors.InterpolateUnknown("stack %s environment: %v", stack.ID, err)
	}
	stack.Config.Environment = expanded

	if args, err := interp.ExpandSlice(stack.Config.ExtraArgs); err != nil {
		return nil, kerrors.InterpolateUnknown("stack %s extra args: %v", stack.ID, err)
	} else {
		stack.Config.ExtraArgs = args
	}

	if args, err := interp.ExpandSlice(stack.Config.BuildExtraArgs); err != nil {
		return nil, kerrors.InterpolateUnknown("stack %s build extra args: %v", stack.ID, err)
	} else {
		stack.Config.BuildExtraArgs = args
	}

	update.PushLog(interp.SummaryLog())
	return interp.SecretReplacers(), nil
}

// Deploy runs ComposeUp for stack, optionally limited to one service,
// under the stack's "deploying" action-state flag. Its Update is
// finalized regardless of outcome.
func (c *Controller) Deploy(ctx context.Context, stackID, service string, stopTime *int, userID string) (*komodo.Update, error) {
	stack, server, err := c.resolve(stackID)
	if err != nil {
		return nil, err
	}

	guard, err := c.guard(stack.ID, flagDeploying)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	update := c.journal.Make(komodo.ResourceTarget{Kind: komodo.KindStack, ID: stack.ID}, komodo.OperationDeployStack, userID, "")
	if service != "" {
		update.PushLog(serviceRequestedLog(service))
	}
	if err := c.journal.Add(update); err != nil {
		return nil, err
	}

	replacers, err := c.interpolateStack(&stack, update)
	if err != nil {
		update.PushErrorLog("interpolate", err.Error())
		c.journal.Finalize(update, false)
		return update, err
	}

	client := c.dial(server)
	logs, err := client.ComposeUp(ctx, periphery.ComposeUpParams{
		Stack:          stack.Name,
		Service:        service,
		FileContents:   []string{stack.Config.FileContents},
		Environment:    stack.Config.Environment,
		EnvFilePath:    stack.Config.EnvFilePath,
		ExtraArgs:      stack.Config.ExtraArgs,
		BuildExtraArgs: stack.Config.BuildExtraArgs,
		Replacers:      secretReplacerMap(replacers),
	})
	for _, l := range logs {
		update.PushLog(l)
	}
	if err != nil {
		update.PushErrorLog("compose up", err.Error())
		c.journal.Finalize(update, false)
		return update, err
	}

	info := stack.Info
	info.LatestServices = []string{stack.Name}
	if err := c.persistInfo(stack, info); err != nil {
		update.PushErrorLog("refresh stack info", err.Error())
	}

	success := allLogsSucceeded(logs)
	if err := c.journal.Finalize(update, success); err != nil {
		return update, err
	}
	return update, nil
}

// DeployIfChanged deploys only when the stack's remote compose contents
// differ from what was last deployed, matching the original's "diff
// compose files, cancel if unchanged" rule.
func (c *Controller) DeployIfChanged(ctx context.Context, stackID string, stopTime *int, userID string) (*komodo.Update, error) {
	stack, _, err := c.resolve(stackID)
	if err != nil {
		return nil, err
	}

	if !contentsChanged(stack.Info) {
		update := c.journal.Make(komodo.ResourceTarget{Kind: komodo.KindStack, ID: stack.ID}, komodo.OperationDeployStack, userID, "")
		update.PushSimpleLog("Diff compose files", "Deploy cancelled after no changes detected.")
		if err := c.journal.Add(update); err != nil {
			return nil, err
		}
		if err := c.journal.Finalize(update, true); err != nil {
			return update, err
		}
		return update, nil
	}

	return c.Deploy(ctx, stackID, "", stopTime, userID)
}

func contentsChanged(info komodo.StackInfo) bool {
	if info.DeployedContents == nil {
		return true
	}
	if info.RemoteContents == nil {
		return false
	}
	deployed := make(map[string]string, len(info.DeployedContents))
	for _, c := range info.DeployedContents {
		deployed[c.Path] = c.Contents
	}
	for _, latest := range info.RemoteContents {
		prior, ok := deployed[latest.Path]
		if !ok || prior != latest.Contents {
			return true
		}
	}
	return false
}

func allLogsSucceeded(logs []komodo.Log) bool {
	for _, l := range logs {
		if !l.Success {
			return false
		}
	}
	return true
}
