package komodo

import "time"

// Procedure is an ordered sequence of stages, each a set of Executions
// run in parallel.
type Procedure struct {
	Envelope
	Config ProcedureConfig `json:"config"`
	Info   ProcedureInfo   `json:"info"`
}

// ProcedureConfig holds the stage list.
type ProcedureConfig struct {
	Stages []ProcedureStage `json:"stages"`
}

// ProcedureStage is one set of Executions run concurrently.
type ProcedureStage struct {
	Name            string      `json:"name"`
	Executions      []Execution `json:"executions"`
	ContinueOnError bool        `json:"continue_on_error"`
}

// ProcedureInfo is derived state about a Procedure.
type ProcedureInfo struct{}

// ProcedureActionState flags for a Procedure.
type ProcedureActionState struct {
	Running bool `json:"running"`
}

func (s ProcedureActionState) Busy() bool { return s.Running }

// Action is a user script evaluated by the embedded script engine
// (pkg/procrun), with a pre-initialized API client bound in.
type Action struct {
	Envelope
	Config ActionConfig `json:"config"`
	Info   ActionInfo   `json:"info"`
}

// ActionConfig holds the script text and its wall-clock timeout.
type ActionConfig struct {
	Script         string `json:"script"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// ActionState is the cached terminal state of the last run of an Action.
type ActionState string

const (
	ActionStateOk      ActionState = "Ok"
	ActionStateFailed  ActionState = "Failed"
	ActionStateRunning ActionState = "Running"
	ActionStateUnknown ActionState = "Unknown"
)

// ActionInfo is derived state about an Action.
type ActionInfo struct {
	LastRunAt time.Time   `json:"last_run_at"`
	State     ActionState `json:"state"`
}

// ActionActionState flags for an Action (the action-state-registry flag
// struct for resource kind Action, distinct from the cached ActionState
// above which records the last script outcome).
type ActionActionState struct {
	Running bool `json:"running"`
}

func (s ActionActionState) Busy() bool { return s.Running }
