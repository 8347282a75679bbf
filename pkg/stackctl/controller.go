package stackctl

import (
	"fmt"

	"github.com/cuemby/komodo-core/pkg/actionstate"
	"github.com/cuemby/komodo-core/pkg/journal"
	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/metrics"
	"github.com/cuemby/komodo-core/pkg/periphery"
	"github.com/cuemby/komodo-core/pkg/store"
)

// Dialer builds a Periphery client for the server a stack is pinned to.
type Dialer func(server komodo.Server) *periphery.Client

// Controller drives every compose lifecycle operation against one
// store.DB, guarded by a shared action-state registry and recorded in
// the Update journal.
type Controller struct {
	store   *store.DB
	journal *journal.Journal
	stacks  *actionstate.Registry
	dial    Dialer
}

func New(db *store.DB, j *journal.Journal, stacks *actionstate.Registry, dial Dialer) *Controller {
	return &Controller{store: db, journal: j, stacks: stacks, dial: dial}
}

// resolve loads a stack by id and the server it is pinned to.
func (c *Controller) resolve(stackID string) (komodo.Stack, komodo.Server, error) {
	stack, err := c.store.GetStack(stackID)
	if err != nil {
		return komodo.Stack{}, komodo.Server{}, kerrors.ResourceMissing("stack %s: %v", stackID, err)
	}
	if stack.Config.ServerID == "" {
		return komodo.Stack{}, komodo.Server{}, kerrors.Precondition("stack %s has no server attached", stackID)
	}
	server, err := c.store.GetServer(stack.Config.ServerID)
	if err != nil {
		return komodo.Stack{}, komodo.Server{}, kerrors.ResourceMissing("server %s: %v", stack.Config.ServerID, err)
	}
	return stack, server, nil
}

// guard acquires the busy flag for this stack, failing with a Busy
// error if any requested flag already overlaps the stack's current
// action state.
func (c *Controller) guard(stackID string, flags actionstate.Flags) (*actionstate.Guard, error) {
	cell := c.stacks.GetOrInsert(stackID)
	guard, err := cell.Update(flags)
	if err != nil {
		metrics.GuardBusyTotal.WithLabelValues("stack").Inc()
		return nil, kerrors.Busy("stack %s: %v", stackID, err)
	}
	return guard, nil
}

// persistInfo writes back the stack's derived Info after a successful
// operation that changed it.
func (c *Controller) persistInfo(stack komodo.Stack, info komodo.StackInfo) error {
	stack.Info = info
	if err := c.store.PutStack(stack); err != nil {
		return kerrors.PersistenceFailure(err, "persist stack info for %s", stack.ID)
	}
	return nil
}

// serviceRequestedLog records which single service a multi-service
// operation targeted, matching the "Execution requested for Stack
// service X" notice the original emits before dispatching.
func serviceRequestedLog(service string) komodo.Log {
	return komodo.SimpleLog(fmt.Sprintf("Service: %s", service), fmt.Sprintf("Execution requested for Stack service %s", service))
}
