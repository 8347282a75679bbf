package execute

import (
	"context"

	"github.com/cuemby/komodo-core/pkg/actionstate"
	"github.com/cuemby/komodo-core/pkg/interpolate"
	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/periphery"
)

// resolveDeployment loads a deployment and its pinned server, failing
// with ResourceMissing if either is absent, or with Precondition if the
// deployment has no server assigned.
func (d *Dispatcher) resolveDeployment(id string) (komodo.Deployment, komodo.Server, error) {
	dep, err := d.store.GetDeployment(id)
	if err != nil {
		return komodo.Deployment{}, komodo.Server{}, kerrors.ResourceMissing("deployment %s: %v", id, err)
	}
	if dep.Config.ServerID == "" {
		return komodo.Deployment{}, komodo.Server{}, kerrors.Precondition("deployment %s has no server assigned", id)
	}
	server, err := d.store.GetServer(dep.Config.ServerID)
	if err != nil {
		return komodo.Deployment{}, komodo.Server{}, kerrors.ResourceMissing("server %s for deployment %s: %v", dep.Config.ServerID, id, err)
	}
	return dep, server, nil
}

func deploymentReplacerMap(replacers []interpolate.Replacer) map[string]string {
	if len(replacers) == 0 {
		return nil
	}
	m := make(map[string]string, len(replacers))
	for _, r := range replacers {
		m[r.Value] = r.Placeholder
	}
	return m
}

func (d *Dispatcher) interpolateDeployment(dep *komodo.Deployment, update *komodo.Update) ([]interpolate.Replacer, error) {
	vars, err := d.store.ListVariables()
	if err != nil {
		return nil, kerrors.PersistenceFailure(err, "list variables for interpolation")
	}
	interp := interpolate.New(vars)

	expanded, err := interp.ExpandSlice(dep.Config.Env)
	if err != nil {
		return nil, kerrors.InterpolateUnknown("deployment %s env: %v", dep.ID, err)
	}
	dep.Config.Env = expanded

	expanded, err = interp.ExpandSlice(dep.Config.ExtraArgs)
	if err != nil {
		return nil, kerrors.InterpolateUnknown("deployment %s extra args: %v", dep.ID, err)
	}
	dep.Config.ExtraArgs = expanded

	update.PushLog(interp.SummaryLog())
	return interp.SecretReplacers(), nil
}

// deployDeployment creates/recreates the deployment's single container
// on its pinned server.
func (d *Dispatcher) deployDeployment(ctx context.Context, id, userID string) (*komodo.Update, error) {
	dep, server, err := d.resolveDeployment(id)
	if err != nil {
		return nil, err
	}

	guard, err := d.guard(d.regs.Deployments, "deployment", dep.ID, actionstate.DeploymentDeploying)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	update := d.journal.Make(komodo.ResourceTarget{Kind: komodo.KindDeployment, ID: dep.ID}, komodo.OperationDeployDeployment, userID, "")
	if err := d.journal.Add(update); err != nil {
		return nil, err
	}

	replacers, err := d.interpolateDeployment(&dep, update)
	if err != nil {
		update.PushErrorLog("interpolate", err.Error())
		d.journal.Finalize(update, false)
		return update, err
	}

	client := d.dial(server)
	logLine, err := client.DeployContainer(ctx, periphery.DeployContainerParams{
		Name:               dep.Name,
		Image:              dep.Config.Image,
		Env:                dep.Config.Env,
		ExtraArgs:          dep.Config.ExtraArgs,
		Networks:           dep.Config.Networks,
		Volumes:            dep.Config.Volumes,
		Labels:             dep.Config.Labels,
		RestartPolicy:      dep.Config.RestartPolicy,
		TerminationSignal:  dep.Config.TerminationSignal,
		TerminationTimeout: dep.Config.TerminationTimeout,
		Replacers:          deploymentReplacerMap(replacers),
	})
	update.PushLog(logLine)
	if err != nil {
		update.PushErrorLog("deploy container", err.Error())
		d.journal.Finalize(update, false)
		return update, err
	}

	if err := d.journal.Finalize(update, logLine.Success); err != nil {
		return update, err
	}
	return update, nil
}

// pullDeployment pulls the deployment's image ahead of a future deploy.
func (d *Dispatcher) pullDeployment(ctx context.Context, id, userID string) (*komodo.Update, error) {
	dep, server, err := d.resolveDeployment(id)
	if err != nil {
		return nil, err
	}

	guard, err := d.guard(d.regs.Deployments, "deployment", dep.ID, actionstate.DeploymentPulling)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	update := d.journal.Make(komodo.ResourceTarget{Kind: komodo.KindDeployment, ID: dep.ID}, komodo.OperationPullDeployment, userID, "")
	if err := d.journal.Add(update); err != nil {
		return nil, err
	}

	client := d.dial(server)
	logLine, err := client.PullImage(ctx, periphery.PullImageParams{Image: dep.Config.Image})
	update.PushLog(logLine)
	if err != nil {
		update.PushErrorLog("pull image", err.Error())
		d.journal.Finalize(update, false)
		return update, err
	}

	if err := d.journal.Finalize(update, logLine.Success); err != nil {
		return update, err
	}
	return update, nil
}

type deploymentVerb func(ctx context.Context, client *periphery.Client, dep komodo.Deployment) (komodo.Log, error)

func deploymentStart(ctx context.Context, c *periphery.Client, dep komodo.Deployment) (komodo.Log, error) {
	return c.StartContainer(ctx, dep.Name)
}
func deploymentRestart(ctx context.Context, c *periphery.Client, dep komodo.Deployment) (komodo.Log, error) {
	return c.RestartContainer(ctx, dep.Name)
}
func deploymentPause(ctx context.Context, c *periphery.Client, dep komodo.Deployment) (komodo.Log, error) {
	return c.PauseContainer(ctx, dep.Name)
}
func deploymentUnpause(ctx context.Context, c *periphery.Client, dep komodo.Deployment) (komodo.Log, error) {
	return c.UnpauseContainer(ctx, dep.Name)
}

// deploymentLifecycle runs the zero-argument container verbs
// (start/restart/pause/unpause) under the matching action-state flag.
func (d *Dispatcher) deploymentLifecycle(ctx context.Context, id, userID string, flag actionstate.Flags, op komodo.Operation, verb deploymentVerb) (*komodo.Update, error) {
	dep, server, err := d.resolveDeployment(id)
	if err != nil {
		return nil, err
	}

	guard, err := d.guard(d.regs.Deployments, "deployment", dep.ID, flag)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	update := d.journal.Make(komodo.ResourceTarget{Kind: komodo.KindDeployment, ID: dep.ID}, op, userID, "")
	if err := d.journal.Add(update); err != nil {
		return nil, err
	}

	client := d.dial(server)
	logLine, err := verb(ctx, client, dep)
	update.PushLog(logLine)
	if err != nil {
		update.PushErrorLog(string(op), err.Error())
		d.journal.Finalize(update, false)
		return update, err
	}

	if err := d.journal.Finalize(update, logLine.Success); err != nil {
		return update, err
	}
	return update, nil
}

func (d *Dispatcher) deploymentStop(ctx context.Context, e komodo.StopDeployment, userID string) (*komodo.Update, error) {
	dep, server, err := d.resolveDeployment(e.Deployment)
	if err != nil {
		return nil, err
	}

	guard, err := d.guard(d.regs.Deployments, "deployment", dep.ID, actionstate.DeploymentStopping)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	update := d.journal.Make(komodo.ResourceTarget{Kind: komodo.KindDeployment, ID: dep.ID}, komodo.OperationStopResource, userID, "")
	if err := d.journal.Add(update); err != nil {
		return nil, err
	}

	client := d.dial(server)
	logLine, err := client.StopContainer(ctx, periphery.StopContainerParams{Name: dep.Name, Signal: e.Signal, Time: e.StopTime})
	update.PushLog(logLine)
	if err != nil {
		update.PushErrorLog("stop container", err.Error())
		d.journal.Finalize(update, false)
		return update, err
	}

	if err := d.journal.Finalize(update, logLine.Success); err != nil {
		return update, err
	}
	return update, nil
}

func (d *Dispatcher) deploymentDestroy(ctx context.Context, e komodo.DestroyDeployment, userID string) (*komodo.Update, error) {
	dep, server, err := d.resolveDeployment(e.Deployment)
	if err != nil {
		return nil, err
	}

	guard, err := d.guard(d.regs.Deployments, "deployment", dep.ID, actionstate.DeploymentDestroying)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	update := d.journal.Make(komodo.ResourceTarget{Kind: komodo.KindDeployment, ID: dep.ID}, komodo.OperationDestroyResource, userID, "")
	if err := d.journal.Add(update); err != nil {
		return nil, err
	}

	client := d.dial(server)
	logLine, err := client.RemoveContainer(ctx, periphery.RemoveContainerParams{Name: dep.Name, Signal: e.Signal, Time: e.StopTime})
	update.PushLog(logLine)
	if err != nil {
		update.PushErrorLog("destroy container", err.Error())
		d.journal.Finalize(update, false)
		return update, err
	}

	if err := d.journal.Finalize(update, logLine.Success); err != nil {
		return update, err
	}
	return update, nil
}
