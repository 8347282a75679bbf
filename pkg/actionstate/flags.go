package actionstate

import "github.com/cuemby/komodo-core/pkg/komodo"

// Deployment flag bits, matching komodo.DeploymentActionState's fields.
const (
	DeploymentDeploying Flags = 1 << iota
	DeploymentPulling
	DeploymentStarting
	DeploymentRestarting
	DeploymentPausing
	DeploymentUnpausing
	DeploymentStopping
	DeploymentDestroying
)

// DeploymentState converts a Cell's bitmask into the named-field struct
// pkg/komodo exposes over the API.
func DeploymentState(f Flags) komodo.DeploymentActionState {
	return komodo.DeploymentActionState{
		Deploying:  f.Has(DeploymentDeploying),
		Pulling:    f.Has(DeploymentPulling),
		Starting:   f.Has(DeploymentStarting),
		Restarting: f.Has(DeploymentRestarting),
		Pausing:    f.Has(DeploymentPausing),
		Unpausing:  f.Has(DeploymentUnpausing),
		Stopping:   f.Has(DeploymentStopping),
		Destroying: f.Has(DeploymentDestroying),
	}
}

// Stack flag bits, matching komodo.StackActionState's fields.
const (
	StackDeploying Flags = 1 << iota
	StackPulling
	StackStarting
	StackRestarting
	StackPausing
	StackUnpausing
	StackStopping
	StackDestroying
)

func StackState(f Flags) komodo.StackActionState {
	return komodo.StackActionState{
		Deploying:  f.Has(StackDeploying),
		Pulling:    f.Has(StackPulling),
		Starting:   f.Has(StackStarting),
		Restarting: f.Has(StackRestarting),
		Pausing:    f.Has(StackPausing),
		Unpausing:  f.Has(StackUnpausing),
		Stopping:   f.Has(StackStopping),
		Destroying: f.Has(StackDestroying),
	}
}

// Procedure flag bits, matching komodo.ProcedureActionState.
const (
	ProcedureRunning Flags = 1 << iota
)

func ProcedureState(f Flags) komodo.ProcedureActionState {
	return komodo.ProcedureActionState{Running: f.Has(ProcedureRunning)}
}

// Action flag bits, matching komodo.ActionActionState.
const (
	ActionRunning Flags = 1 << iota
)

func ActionState(f Flags) komodo.ActionActionState {
	return komodo.ActionActionState{Running: f.Has(ActionRunning)}
}
