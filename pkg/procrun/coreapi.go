package procrun

import (
	"context"

	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/store"
)

// CoreAPI is the surface an Action script gets bound into its sandbox
// as the `core` global: read access to the deployment, stack, server and
// procedure collections plus
// the ability to dispatch an Execution the same way the HTTP surface
// would, so a script can both inspect and act on the system it runs
// inside.
type CoreAPI interface {
	ListDeployments() ([]komodo.Deployment, error)
	ListStacks() ([]komodo.Stack, error)
	ListServers() ([]komodo.Server, error)
	ListProcedures() ([]komodo.Procedure, error)
	GetDeployment(id string) (komodo.Deployment, error)
	GetStack(id string) (komodo.Stack, error)
	GetServer(id string) (komodo.Server, error)
	Execute(exec komodo.Execution, userID string) (*komodo.Update, error)
}

// storeBackedAPI is the concrete CoreAPI bound into every Action run.
type storeBackedAPI struct {
	store    *store.DB
	dispatch Dispatch
}

func (a *storeBackedAPI) ListDeployments() ([]komodo.Deployment, error) { return a.store.ListDeployments() }
func (a *storeBackedAPI) ListStacks() ([]komodo.Stack, error)           { return a.store.ListStacks() }
func (a *storeBackedAPI) ListServers() ([]komodo.Server, error)         { return a.store.ListServers() }
func (a *storeBackedAPI) ListProcedures() ([]komodo.Procedure, error)   { return a.store.ListProcedures() }
func (a *storeBackedAPI) GetDeployment(id string) (komodo.Deployment, error) {
	return a.store.GetDeployment(id)
}
func (a *storeBackedAPI) GetStack(id string) (komodo.Stack, error) { return a.store.GetStack(id) }
func (a *storeBackedAPI) GetServer(id string) (komodo.Server, error) { return a.store.GetServer(id) }

// Execute runs exec to completion via the bound Dispatch callback,
// using a fresh background context: the script's own wall-clock
// timeout governs the script, not the actions it triggers.
func (a *storeBackedAPI) Execute(exec komodo.Execution, userID string) (*komodo.Update, error) {
	return a.dispatch(context.Background(), exec, userID)
}
