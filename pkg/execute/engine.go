package execute

import (
	"context"

	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/periphery"
)

// engineOp covers every ad hoc, not-persistently-tracked engine
// operation addressed directly at a server: single/all-container
// lifecycle verbs, prune verbs, and delete-by-name verbs. None of these
// carry a resource id with an action-state cell of their own — the
// server they target is the only durable thing about them — so no
// guard is acquired; the Update is still opened, logged, and finalized
// like every other variant.
func (d *Dispatcher) engineOp(ctx context.Context, exec komodo.Execution, userID string) (*komodo.Update, error) {
	serverID, op, call := engineCall(exec)
	if call == nil {
		return nil, kerrors.Precondition("unhandled engine execution kind %s", exec.Kind())
	}

	server, err := d.store.GetServer(serverID)
	if err != nil {
		return nil, kerrors.ResourceMissing("server %s: %v", serverID, err)
	}

	update := d.journal.Make(komodo.ResourceTarget{Kind: komodo.KindServer, ID: server.ID}, op, userID, "")
	if err := d.journal.Add(update); err != nil {
		return nil, err
	}

	client := d.dial(server)
	logLine, err := call(ctx, client)
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

type engineCallFn func(ctx context.Context, c *periphery.Client) (komodo.Log, error)

func engineCall(exec komodo.Execution) (serverID string, op komodo.Operation, call engineCallFn) {
	switch e := exec.(type) {
	case komodo.StartContainer:
		return e.Server, komodo.OperationStartResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.StartContainer(ctx, e.Name)
		}
	case komodo.RestartContainer:
		return e.Server, komodo.OperationRestartResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.RestartContainer(ctx, e.Name)
		}
	case komodo.PauseContainer:
		return e.Server, komodo.OperationPauseResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.PauseContainer(ctx, e.Name)
		}
	case komodo.UnpauseContainer:
		return e.Server, komodo.OperationUnpauseResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.UnpauseContainer(ctx, e.Name)
		}
	case komodo.StopContainer:
		return e.Server, komodo.OperationStopResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.StopContainer(ctx, periphery.StopContainerParams{Name: e.Name, Signal: e.Signal, Time: e.StopTime})
		}
	case komodo.DestroyContainer:
		return e.Server, komodo.OperationDestroyResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.RemoveContainer(ctx, periphery.RemoveContainerParams{Name: e.Name, Signal: e.Signal, Time: e.StopTime})
		}
	case komodo.StartAllContainers:
		return e.Server, komodo.OperationStartResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.StartAllContainers(ctx)
		}
	case komodo.RestartAllContainers:
		return e.Server, komodo.OperationRestartResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.RestartAllContainers(ctx)
		}
	case komodo.PauseAllContainers:
		return e.Server, komodo.OperationPauseResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.PauseAllContainers(ctx)
		}
	case komodo.UnpauseAllContainers:
		return e.Server, komodo.OperationUnpauseResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.UnpauseAllContainers(ctx)
		}
	case komodo.StopAllContainers:
		return e.Server, komodo.OperationStopResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.StopAllContainers(ctx)
		}
	case komodo.PruneContainers:
		return e.Server, komodo.OperationStopResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.PruneContainers(ctx)
		}
	case komodo.PruneNetworks:
		return e.Server, komodo.OperationStopResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.PruneNetworks(ctx)
		}
	case komodo.PruneImages:
		return e.Server, komodo.OperationStopResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.PruneImages(ctx)
		}
	case komodo.PruneVolumes:
		return e.Server, komodo.OperationStopResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.PruneVolumes(ctx)
		}
	case komodo.PruneDockerBuilders:
		return e.Server, komodo.OperationStopResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.PruneDockerBuilders(ctx)
		}
	case komodo.PruneBuildx:
		return e.Server, komodo.OperationStopResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.PruneBuildx(ctx)
		}
	case komodo.PruneSystem:
		return e.Server, komodo.OperationStopResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.PruneSystem(ctx)
		}
	case komodo.DeleteNetwork:
		return e.Server, komodo.OperationDestroyResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.DeleteNetwork(ctx, e.Name)
		}
	case komodo.DeleteImage:
		return e.Server, komodo.OperationDestroyResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.DeleteImage(ctx, e.Name)
		}
	case komodo.DeleteVolume:
		return e.Server, komodo.OperationDestroyResource, func(ctx context.Context, c *periphery.Client) (komodo.Log, error) {
			return c.DeleteVolume(ctx, e.Name)
		}
	default:
		return "", "", nil
	}
}
