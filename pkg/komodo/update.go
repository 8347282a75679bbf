package komodo

import "time"

// Operation enumerates the kind of work an Update records.
type Operation string

const (
	OperationCreateDeployment Operation = "CreateDeployment"
	OperationUpdateDeployment Operation = "UpdateDeployment"
	OperationDeleteDeployment Operation = "DeleteDeployment"
	OperationDeployDeployment Operation = "DeployDeployment"
	OperationPullDeployment   Operation = "PullDeployment"

	OperationCreateStack Operation = "CreateStack"
	OperationUpdateStack Operation = "UpdateStack"
	OperationDeleteStack Operation = "DeleteStack"
	OperationDeployStack Operation = "DeployStack"
	OperationPullStack   Operation = "PullStack"

	OperationStartResource   Operation = "StartResource"
	OperationRestartResource Operation = "RestartResource"
	OperationPauseResource   Operation = "PauseResource"
	OperationUnpauseResource Operation = "UnpauseResource"
	OperationStopResource    Operation = "StopResource"
	OperationDestroyResource Operation = "DestroyResource"

	OperationRunProcedure Operation = "RunProcedure"
	OperationRunAction    Operation = "RunAction"
	OperationRunSync      Operation = "RunSync"
	OperationBatch        Operation = "Batch"
)

// UpdateStatus is the lifecycle stage of an Update.
type UpdateStatus string

const (
	UpdateStatusQueued     UpdateStatus = "Queued"
	UpdateStatusInProgress UpdateStatus = "InProgress"
	UpdateStatusComplete   UpdateStatus = "Complete"
)

// Log is one recorded step of an operation.
type Log struct {
	Stage   string    `json:"stage"`
	Command string    `json:"command,omitempty"`
	Stdout  string    `json:"stdout,omitempty"`
	Stderr  string    `json:"stderr,omitempty"`
	Success bool      `json:"success"`
	Start   time.Time `json:"start_ts"`
	End     time.Time `json:"end_ts"`
}

// SimpleLog builds a Log carrying only a stage label and an stdout
// message, pre-marked successful — the shape used for informational
// entries (interpolation summaries, cancellation notices, and the like).
func SimpleLog(stage, message string) Log {
	now := time.Now()
	return Log{Stage: stage, Stdout: message, Success: true, Start: now, End: now}
}

// ErrorLog builds a failed Log carrying only a stage label and stderr.
func ErrorLog(stage, message string) Log {
	now := time.Now()
	return Log{Stage: stage, Stderr: message, Success: false, Start: now, End: now}
}

// Update is the durable record of one in-flight or terminal operation.
type Update struct {
	ID        string         `json:"id"`
	Target    ResourceTarget `json:"target"`
	Operation Operation      `json:"operation"`
	Status    UpdateStatus   `json:"status"`
	Success   bool           `json:"success"`
	StartedAt time.Time      `json:"start_ts"`
	EndedAt   time.Time      `json:"end_ts"`
	UserID    string         `json:"user_id"`
	Version   string         `json:"version,omitempty"`
	Logs      []Log          `json:"logs"`
}

// PushLog appends a log entry, preserving code-order: within one
// Update, log append order equals code order.
func (u *Update) PushLog(l Log) {
	u.Logs = append(u.Logs, l)
}

// PushSimpleLog appends an informational, always-successful log entry.
func (u *Update) PushSimpleLog(stage, message string) {
	u.PushLog(SimpleLog(stage, message))
}

// PushErrorLog appends a failed log entry.
func (u *Update) PushErrorLog(stage, message string) {
	u.PushLog(ErrorLog(stage, message))
}

// InProgress transitions the Update to InProgress, stamping StartedAt
// if not already set.
func (u *Update) InProgress() {
	if u.StartedAt.IsZero() {
		u.StartedAt = time.Now()
	}
	u.Status = UpdateStatusInProgress
}

// Finalize transitions the Update to Complete with the given outcome,
// stamping EndedAt. Every exit path from an execution handler must call
// this exactly once.
func (u *Update) Finalize(success bool) {
	u.Success = success
	u.EndedAt = time.Now()
	u.Status = UpdateStatusComplete
}
