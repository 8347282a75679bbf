package komodo

// ExecutionKind is the tag of the closed Execution sum type.
// Implemented as a tagged interface rather than reflection: each
// variant is a distinct struct, and pkg/execute routes with a type
// switch over the concrete variant.
type ExecutionKind string

const (
	ExecRunAction    ExecutionKind = "RunAction"
	ExecRunProcedure ExecutionKind = "RunProcedure"

	ExecRunBuild    ExecutionKind = "RunBuild"
	ExecCancelBuild ExecutionKind = "CancelBuild"

	ExecDeployDeployment    ExecutionKind = "Deploy"
	ExecPullDeployment      ExecutionKind = "PullDeployment"
	ExecStartDeployment     ExecutionKind = "StartDeployment"
	ExecRestartDeployment   ExecutionKind = "RestartDeployment"
	ExecPauseDeployment     ExecutionKind = "PauseDeployment"
	ExecUnpauseDeployment   ExecutionKind = "UnpauseDeployment"
	ExecStopDeployment      ExecutionKind = "StopDeployment"
	ExecDestroyDeployment   ExecutionKind = "DestroyDeployment"

	ExecCloneRepo      ExecutionKind = "CloneRepo"
	ExecPullRepo       ExecutionKind = "PullRepo"
	ExecBuildRepo      ExecutionKind = "BuildRepo"
	ExecCancelRepoBuild ExecutionKind = "CancelRepoBuild"

	ExecStartContainer   ExecutionKind = "StartContainer"
	ExecRestartContainer ExecutionKind = "RestartContainer"
	ExecPauseContainer   ExecutionKind = "PauseContainer"
	ExecUnpauseContainer ExecutionKind = "UnpauseContainer"
	ExecStopContainer    ExecutionKind = "StopContainer"
	ExecDestroyContainer ExecutionKind = "DestroyContainer"

	ExecStartAllContainers   ExecutionKind = "StartAllContainers"
	ExecRestartAllContainers ExecutionKind = "RestartAllContainers"
	ExecPauseAllContainers   ExecutionKind = "PauseAllContainers"
	ExecUnpauseAllContainers ExecutionKind = "UnpauseAllContainers"
	ExecStopAllContainers    ExecutionKind = "StopAllContainers"

	ExecPruneContainers     ExecutionKind = "PruneContainers"
	ExecPruneNetworks       ExecutionKind = "PruneNetworks"
	ExecPruneImages         ExecutionKind = "PruneImages"
	ExecPruneVolumes        ExecutionKind = "PruneVolumes"
	ExecPruneDockerBuilders ExecutionKind = "PruneDockerBuilders"
	ExecPruneBuildx         ExecutionKind = "PruneBuildx"
	ExecPruneSystem         ExecutionKind = "PruneSystem"

	ExecDeleteNetwork ExecutionKind = "DeleteNetwork"
	ExecDeleteImage   ExecutionKind = "DeleteImage"
	ExecDeleteVolume  ExecutionKind = "DeleteVolume"

	ExecRunSync    ExecutionKind = "RunSync"
	ExecCommitSync ExecutionKind = "CommitSync"

	ExecDeployStack          ExecutionKind = "DeployStack"
	ExecDeployStackIfChanged ExecutionKind = "DeployStackIfChanged"
	ExecPullStack            ExecutionKind = "PullStack"
	ExecStartStack           ExecutionKind = "StartStack"
	ExecRestartStack         ExecutionKind = "RestartStack"
	ExecPauseStack           ExecutionKind = "PauseStack"
	ExecUnpauseStack         ExecutionKind = "UnpauseStack"
	ExecStopStack            ExecutionKind = "StopStack"
	ExecDestroyStack         ExecutionKind = "DestroyStack"

	ExecTestAlerter ExecutionKind = "TestAlerter"
	ExecSleep       ExecutionKind = "Sleep"
	ExecNone        ExecutionKind = "None"

	ExecBatch ExecutionKind = "Batch"
)

// Execution is the closed sum type dispatched by pkg/execute. Every
// variant struct below implements it.
type Execution interface {
	Kind() ExecutionKind
}

// --- deployment variants ---

type DeployDeployment struct{ Deployment string }

func (DeployDeployment) Kind() ExecutionKind { return ExecDeployDeployment }

type PullDeployment struct{ Deployment string }

func (PullDeployment) Kind() ExecutionKind { return ExecPullDeployment }

type StartDeployment struct{ Deployment string }

func (StartDeployment) Kind() ExecutionKind { return ExecStartDeployment }

type RestartDeployment struct{ Deployment string }

func (RestartDeployment) Kind() ExecutionKind { return ExecRestartDeployment }

type PauseDeployment struct{ Deployment string }

func (PauseDeployment) Kind() ExecutionKind { return ExecPauseDeployment }

type UnpauseDeployment struct{ Deployment string }

func (UnpauseDeployment) Kind() ExecutionKind { return ExecUnpauseDeployment }

type StopDeployment struct {
	Deployment string
	Signal     string
	StopTime   *int
}

func (StopDeployment) Kind() ExecutionKind { return ExecStopDeployment }

type DestroyDeployment struct {
	Deployment string
	Signal     string
	StopTime   *int
}

func (DestroyDeployment) Kind() ExecutionKind { return ExecDestroyDeployment }

// --- repo variants ---

type CloneRepo struct{ Repo string }

func (CloneRepo) Kind() ExecutionKind { return ExecCloneRepo }

type PullRepo struct{ Repo string }

func (PullRepo) Kind() ExecutionKind { return ExecPullRepo }

type BuildRepo struct{ Repo string }

func (BuildRepo) Kind() ExecutionKind { return ExecBuildRepo }

type CancelRepoBuild struct{ Repo string }

func (CancelRepoBuild) Kind() ExecutionKind { return ExecCancelRepoBuild }

// --- build variants ---

type RunBuild struct{ Build string }

func (RunBuild) Kind() ExecutionKind { return ExecRunBuild }

type CancelBuild struct{ Build string }

func (CancelBuild) Kind() ExecutionKind { return ExecCancelBuild }

// --- container variants ---

type StartContainer struct{ Server, Name string }

func (StartContainer) Kind() ExecutionKind { return ExecStartContainer }

type RestartContainer struct{ Server, Name string }

func (RestartContainer) Kind() ExecutionKind { return ExecRestartContainer }

type PauseContainer struct{ Server, Name string }

func (PauseContainer) Kind() ExecutionKind { return ExecPauseContainer }

type UnpauseContainer struct{ Server, Name string }

func (UnpauseContainer) Kind() ExecutionKind { return ExecUnpauseContainer }

type StopContainer struct {
	Server, Name string
	Signal       string
	StopTime     *int
}

func (StopContainer) Kind() ExecutionKind { return ExecStopContainer }

type DestroyContainer struct {
	Server, Name string
	Signal       string
	StopTime     *int
}

func (DestroyContainer) Kind() ExecutionKind { return ExecDestroyContainer }

type StartAllContainers struct{ Server string }

func (StartAllContainers) Kind() ExecutionKind { return ExecStartAllContainers }

type RestartAllContainers struct{ Server string }

func (RestartAllContainers) Kind() ExecutionKind { return ExecRestartAllContainers }

type PauseAllContainers struct{ Server string }

func (PauseAllContainers) Kind() ExecutionKind { return ExecPauseAllContainers }

type UnpauseAllContainers struct{ Server string }

func (UnpauseAllContainers) Kind() ExecutionKind { return ExecUnpauseAllContainers }

type StopAllContainers struct{ Server string }

func (StopAllContainers) Kind() ExecutionKind { return ExecStopAllContainers }

// --- prune / delete variants ---

type PruneContainers struct{ Server string }

func (PruneContainers) Kind() ExecutionKind { return ExecPruneContainers }

type PruneNetworks struct{ Server string }

func (PruneNetworks) Kind() ExecutionKind { return ExecPruneNetworks }

type PruneImages struct{ Server string }

func (PruneImages) Kind() ExecutionKind { return ExecPruneImages }

type PruneVolumes struct{ Server string }

func (PruneVolumes) Kind() ExecutionKind { return ExecPruneVolumes }

type PruneDockerBuilders struct{ Server string }

func (PruneDockerBuilders) Kind() ExecutionKind { return ExecPruneDockerBuilders }

type PruneBuildx struct{ Server string }

func (PruneBuildx) Kind() ExecutionKind { return ExecPruneBuildx }

type PruneSystem struct{ Server string }

func (PruneSystem) Kind() ExecutionKind { return ExecPruneSystem }

type DeleteNetwork struct{ Server, Name string }

func (DeleteNetwork) Kind() ExecutionKind { return ExecDeleteNetwork }

type DeleteImage struct{ Server, Name string }

func (DeleteImage) Kind() ExecutionKind { return ExecDeleteImage }

type DeleteVolume struct{ Server, Name string }

func (DeleteVolume) Kind() ExecutionKind { return ExecDeleteVolume }

// --- sync variants ---

type RunSync struct{ Sync string }

func (RunSync) Kind() ExecutionKind { return ExecRunSync }

type CommitSync struct{ Sync string }

func (CommitSync) Kind() ExecutionKind { return ExecCommitSync }

// --- stack variants ---

type DeployStack struct {
	Stack    string
	Service  string
	StopTime *int
}

func (DeployStack) Kind() ExecutionKind { return ExecDeployStack }

type DeployStackIfChanged struct {
	Stack    string
	StopTime *int
}

func (DeployStackIfChanged) Kind() ExecutionKind { return ExecDeployStackIfChanged }

type PullStack struct {
	Stack   string
	Service string
}

func (PullStack) Kind() ExecutionKind { return ExecPullStack }

type StartStack struct {
	Stack   string
	Service string
}

func (StartStack) Kind() ExecutionKind { return ExecStartStack }

type RestartStack struct {
	Stack   string
	Service string
}

func (RestartStack) Kind() ExecutionKind { return ExecRestartStack }

type PauseStack struct {
	Stack   string
	Service string
}

func (PauseStack) Kind() ExecutionKind { return ExecPauseStack }

type UnpauseStack struct {
	Stack   string
	Service string
}

func (UnpauseStack) Kind() ExecutionKind { return ExecUnpauseStack }

type StopStack struct {
	Stack    string
	Service  string
	StopTime *int
}

func (StopStack) Kind() ExecutionKind { return ExecStopStack }

type DestroyStack struct {
	Stack         string
	Service       string
	RemoveOrphans bool
	StopTime      *int
}

func (DestroyStack) Kind() ExecutionKind { return ExecDestroyStack }

// --- procedure / action / misc variants ---

type RunProcedure struct{ Procedure string }

func (RunProcedure) Kind() ExecutionKind { return ExecRunProcedure }

type RunAction struct{ Action string }

func (RunAction) Kind() ExecutionKind { return ExecRunAction }

type TestAlerter struct{ Alerter string }

func (TestAlerter) Kind() ExecutionKind { return ExecTestAlerter }

// Sleep is a debug variant: it sleeps and touches nothing else.
type Sleep struct{ DurationMS int }

func (Sleep) Kind() ExecutionKind { return ExecSleep }

// None performs no work.
type None struct{}

func (None) Kind() ExecutionKind { return ExecNone }

// Batch carries a glob/tag Pattern plus the singleton Execution
// variant it fans out to. Rather than declaring one Batch* struct per
// batchable variant (BatchDeployStack, BatchRunAction, ...), this
// models "any variant, plus batch dispatch" as a single generic
// wrapper keyed by the Variant it resolves to; pkg/execute holds the
// Variant -> "build the singleton Execution for one resolved name"
// registry.
type Batch struct {
	Variant  ExecutionKind
	Pattern  string
	StopTime *int
}

func (Batch) Kind() ExecutionKind { return ExecBatch }
