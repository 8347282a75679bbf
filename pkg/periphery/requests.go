package periphery

import (
	"context"

	"github.com/cuemby/komodo-core/pkg/komodo"
)

// Request parameter shapes for the representative Core<->Periphery
// request kinds. Field names mirror the wire contract's JSON `params`
// body.

type InspectContainerParams struct {
	Name string `json:"name"`
}

type GetContainerLogParams struct {
	Name       string `json:"name"`
	Tail       int    `json:"tail,omitempty"`
	Timestamps bool   `json:"timestamps,omitempty"`
}

type GetContainerLogSearchParams struct {
	Name       string   `json:"name"`
	Terms      []string `json:"terms"`
	Combinator string   `json:"combinator,omitempty"` // "and" | "or"
	Invert     bool     `json:"invert,omitempty"`
	Timestamps bool     `json:"timestamps,omitempty"`
}

type GetContainerStatsParams struct {
	Name string `json:"name"`
}

type StartContainerParams struct {
	Name string `json:"name"`
}

type StopContainerParams struct {
	Name   string `json:"name"`
	Signal string `json:"signal,omitempty"`
	Time   *int   `json:"time,omitempty"`
}

type RemoveContainerParams struct {
	Name   string `json:"name"`
	Signal string `json:"signal,omitempty"`
	Time   *int   `json:"time,omitempty"`
}

type RenameContainerParams struct {
	Curr string `json:"curr"`
	New  string `json:"new"`
}

type PruneContainersParams struct{}

// DeployContainerParams describes a single-container run, the
// Deployment-resource equivalent of ComposeUp for a Stack.
type DeployContainerParams struct {
	Name               string            `json:"name"`
	Image              string            `json:"image"`
	Env                []string          `json:"env,omitempty"`
	ExtraArgs          []string          `json:"extra_args,omitempty"`
	Networks           []string          `json:"networks,omitempty"`
	Volumes            []string          `json:"volumes,omitempty"`
	Labels             map[string]string `json:"labels,omitempty"`
	RestartPolicy      string            `json:"restart_policy,omitempty"`
	TerminationSignal  string            `json:"termination_signal,omitempty"`
	TerminationTimeout int               `json:"termination_timeout,omitempty"`
	RegistryToken      string            `json:"registry_token,omitempty"`
	Replacers          map[string]string `json:"replacers,omitempty"`
}

type PullImageParams struct {
	Image         string `json:"image"`
	RegistryToken string `json:"registry_token,omitempty"`
}

type ComposeUpParams struct {
	Stack          string            `json:"stack"`
	Service        string            `json:"service,omitempty"`
	FileContents   []string          `json:"file_contents,omitempty"`
	Environment    string            `json:"environment,omitempty"`
	EnvFilePath    string            `json:"env_file_path,omitempty"`
	ExtraArgs      []string          `json:"extra_args,omitempty"`
	BuildExtraArgs []string          `json:"build_extra_args,omitempty"`
	GitToken       string            `json:"git_token,omitempty"`
	RegistryToken  string            `json:"registry_token,omitempty"`
	Replacers      map[string]string `json:"replacers,omitempty"`
}

type ComposePullParams struct {
	Stack     string            `json:"stack"`
	Service   string            `json:"service,omitempty"`
	GitToken  string            `json:"git_token,omitempty"`
	Replacers map[string]string `json:"replacers,omitempty"`
}

// ComposeLifecycleParams covers the compose verbs that only need the
// project and optionally one service and/or a stop timeout: start,
// restart, pause, unpause, stop.
type ComposeLifecycleParams struct {
	Stack    string `json:"stack"`
	Service  string `json:"service,omitempty"`
	StopTime *int   `json:"stop_time,omitempty"`
}

type ComposeDestroyParams struct {
	Stack         string `json:"stack"`
	Service       string `json:"service,omitempty"`
	RemoveOrphans bool   `json:"remove_orphans,omitempty"`
	StopTime      *int   `json:"stop_time,omitempty"`
}

type InspectNetworkParams struct{ Name string `json:"name"` }
type InspectVolumeParams struct{ Name string `json:"name"` }
type InspectImageParams struct{ Name string `json:"name"` }
type ImageHistoryParams struct{ Name string `json:"name"` }
type GetSystemInformationParams struct{}
type GetSystemProcessesParams struct{}
type GetVersionParams struct{}

// InspectResult holds Periphery's inspect payload as a raw JSON map;
// this control plane does not model its fields.
type InspectResult struct {
	Raw map[string]any `json:"raw"`
}

// StatsResult wraps the stats snapshot GetContainerStats returns for
// one container.
type StatsResult struct {
	Stats komodo.SystemStats `json:"stats"`
}

// --- typed call wrappers ---

func (c *Client) InspectContainer(ctx context.Context, name string) (InspectResult, error) {
	var out InspectResult
	err := c.Call(ctx, "InspectContainer", InspectContainerParams{Name: name}, &out, 0)
	return out, err
}

func (c *Client) GetContainerLog(ctx context.Context, p GetContainerLogParams) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, "GetContainerLog", p, &out, 0)
	return out, err
}

func (c *Client) GetContainerLogSearch(ctx context.Context, p GetContainerLogSearchParams) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, "GetContainerLogSearch", p, &out, 0)
	return out, err
}

func (c *Client) GetContainerStats(ctx context.Context, name string) (StatsResult, error) {
	var out StatsResult
	err := c.Call(ctx, "GetContainerStats", GetContainerStatsParams{Name: name}, &out, 0)
	return out, err
}

func (c *Client) StartContainer(ctx context.Context, name string) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, "StartContainer", StartContainerParams{Name: name}, &out, 0)
	return out, err
}

// StopContainer stops a container, applying the stop-command
// compatibility fallback: if a call with Signal set returns stderr
// showing an old docker build does not support --signal, it retries
// once without Signal and prefixes the retry's stderr with
// OldDockerSignalNotice. RemoveContainer applies the same rule.
func (c *Client) StopContainer(ctx context.Context, p StopContainerParams) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, "StopContainer", p, &out, 0)
	if err == nil && p.Signal != "" && IsOldDockerSignalError(out.Stderr) {
		p.Signal = ""
		out = komodo.Log{}
		err = c.Call(ctx, "StopContainer", p, &out, 0)
		out.Stderr = OldDockerSignalNotice + "\n" + out.Stderr
	}
	return out, err
}

func (c *Client) RemoveContainer(ctx context.Context, p RemoveContainerParams) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, "RemoveContainer", p, &out, 0)
	if err == nil && p.Signal != "" && IsOldDockerSignalError(out.Stderr) {
		p.Signal = ""
		out = komodo.Log{}
		err = c.Call(ctx, "RemoveContainer", p, &out, 0)
		out.Stderr = OldDockerSignalNotice + "\n" + out.Stderr
	}
	return out, err
}

func (c *Client) RenameContainer(ctx context.Context, curr, new string) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, "RenameContainer", RenameContainerParams{Curr: curr, New: new}, &out, 0)
	return out, err
}

func (c *Client) PruneContainers(ctx context.Context) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, "PruneContainers", PruneContainersParams{}, &out, 0)
	return out, err
}

// singleContainerCall covers the one-name lifecycle verbs that share
// StartContainer's request shape: restart, pause, unpause.
func (c *Client) singleContainerCall(ctx context.Context, verb, name string) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, verb, StartContainerParams{Name: name}, &out, 0)
	return out, err
}

func (c *Client) RestartContainer(ctx context.Context, name string) (komodo.Log, error) {
	return c.singleContainerCall(ctx, "RestartContainer", name)
}
func (c *Client) PauseContainer(ctx context.Context, name string) (komodo.Log, error) {
	return c.singleContainerCall(ctx, "PauseContainer", name)
}
func (c *Client) UnpauseContainer(ctx context.Context, name string) (komodo.Log, error) {
	return c.singleContainerCall(ctx, "UnpauseContainer", name)
}

// namedDeleteCall covers the delete-by-name verbs: DeleteNetwork,
// DeleteImage, DeleteVolume.
func (c *Client) namedDeleteCall(ctx context.Context, verb, name string) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, verb, InspectNetworkParams{Name: name}, &out, 0)
	return out, err
}

func (c *Client) DeleteNetwork(ctx context.Context, name string) (komodo.Log, error) {
	return c.namedDeleteCall(ctx, "DeleteNetwork", name)
}
func (c *Client) DeleteImage(ctx context.Context, name string) (komodo.Log, error) {
	return c.namedDeleteCall(ctx, "DeleteImage", name)
}
func (c *Client) DeleteVolume(ctx context.Context, name string) (komodo.Log, error) {
	return c.namedDeleteCall(ctx, "DeleteVolume", name)
}

// pruneCall covers the argument-less prune verbs for every engine
// resource kind.
func (c *Client) pruneCall(ctx context.Context, verb string) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, verb, struct{}{}, &out, 0)
	return out, err
}

func (c *Client) PruneNetworks(ctx context.Context) (komodo.Log, error) {
	return c.pruneCall(ctx, "PruneNetworks")
}
func (c *Client) PruneImages(ctx context.Context) (komodo.Log, error) {
	return c.pruneCall(ctx, "PruneImages")
}
func (c *Client) PruneVolumes(ctx context.Context) (komodo.Log, error) {
	return c.pruneCall(ctx, "PruneVolumes")
}
func (c *Client) PruneDockerBuilders(ctx context.Context) (komodo.Log, error) {
	return c.pruneCall(ctx, "PruneDockerBuilders")
}
func (c *Client) PruneBuildx(ctx context.Context) (komodo.Log, error) {
	return c.pruneCall(ctx, "PruneBuildx")
}
func (c *Client) PruneSystem(ctx context.Context) (komodo.Log, error) {
	return c.pruneCall(ctx, "PruneSystem")
}

func (c *Client) DeployContainer(ctx context.Context, p DeployContainerParams) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, "DeployContainer", p, &out, 0)
	return out, err
}

func (c *Client) PullImage(ctx context.Context, p PullImageParams) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, "PullImage", p, &out, 0)
	return out, err
}

// allContainersCall covers {Start,Restart,Pause,Unpause,Stop}AllContainers;
// each excludes containers labeled komodo.skip, enforced on the
// Periphery side.
func (c *Client) allContainersCall(ctx context.Context, verb string) (komodo.Log, error) {
	var out komodo.Log
	err := c.Call(ctx, verb, struct{}{}, &out, 0)
	return out, err
}

func (c *Client) StartAllContainers(ctx context.Context) (komodo.Log, error) {
	return c.allContainersCall(ctx, "StartAllContainers")
}
func (c *Client) RestartAllContainers(ctx context.Context) (komodo.Log, error) {
	return c.allContainersCall(ctx, "RestartAllContainers")
}
func (c *Client) PauseAllContainers(ctx context.Context) (komodo.Log, error) {
	return c.allContainersCall(ctx, "PauseAllContainers")
}
func (c *Client) UnpauseAllContainers(ctx context.Context) (komodo.Log, error) {
	return c.allContainersCall(ctx, "UnpauseAllContainers")
}
func (c *Client) StopAllContainers(ctx context.Context) (komodo.Log, error) {
	return c.allContainersCall(ctx, "StopAllContainers")
}

func (c *Client) ComposeUp(ctx context.Context, p ComposeUpParams) ([]komodo.Log, error) {
	var out []komodo.Log
	err := c.Call(ctx, "ComposeUp", p, &out, 0)
	return out, err
}

func (c *Client) ComposePull(ctx context.Context, p ComposePullParams) ([]komodo.Log, error) {
	var out []komodo.Log
	err := c.Call(ctx, "ComposePull", p, &out, 0)
	return out, err
}

func (c *Client) ComposeStart(ctx context.Context, p ComposeLifecycleParams) ([]komodo.Log, error) {
	var out []komodo.Log
	err := c.Call(ctx, "ComposeStart", p, &out, 0)
	return out, err
}

func (c *Client) ComposeRestart(ctx context.Context, p ComposeLifecycleParams) ([]komodo.Log, error) {
	var out []komodo.Log
	err := c.Call(ctx, "ComposeRestart", p, &out, 0)
	return out, err
}

func (c *Client) ComposePause(ctx context.Context, p ComposeLifecycleParams) ([]komodo.Log, error) {
	var out []komodo.Log
	err := c.Call(ctx, "ComposePause", p, &out, 0)
	return out, err
}

func (c *Client) ComposeUnpause(ctx context.Context, p ComposeLifecycleParams) ([]komodo.Log, error) {
	var out []komodo.Log
	err := c.Call(ctx, "ComposeUnpause", p, &out, 0)
	return out, err
}

func (c *Client) ComposeStop(ctx context.Context, p ComposeLifecycleParams) ([]komodo.Log, error) {
	var out []komodo.Log
	err := c.Call(ctx, "ComposeStop", p, &out, 0)
	return out, err
}

func (c *Client) ComposeDestroy(ctx context.Context, p ComposeDestroyParams) ([]komodo.Log, error) {
	var out []komodo.Log
	err := c.Call(ctx, "ComposeDestroy", p, &out, 0)
	return out, err
}

func (c *Client) InspectNetwork(ctx context.Context, name string) (InspectResult, error) {
	var out InspectResult
	err := c.Call(ctx, "InspectNetwork", InspectNetworkParams{Name: name}, &out, 0)
	return out, err
}

func (c *Client) InspectVolume(ctx context.Context, name string) (InspectResult, error) {
	var out InspectResult
	err := c.Call(ctx, "InspectVolume", InspectVolumeParams{Name: name}, &out, 0)
	return out, err
}

func (c *Client) InspectImage(ctx context.Context, name string) (InspectResult, error) {
	var out InspectResult
	err := c.Call(ctx, "InspectImage", InspectImageParams{Name: name}, &out, 0)
	return out, err
}

func (c *Client) ImageHistory(ctx context.Context, name string) (InspectResult, error) {
	var out InspectResult
	err := c.Call(ctx, "ImageHistory", ImageHistoryParams{Name: name}, &out, 0)
	return out, err
}

// SystemInfo is the decoded GetSystemInformation response.
type SystemInfo struct {
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

func (c *Client) GetSystemInformation(ctx context.Context) (SystemInfo, error) {
	var out SystemInfo
	err := c.Call(ctx, "GetSystemInformation", GetSystemInformationParams{}, &out, 0)
	return out, err
}

// ProcessInfo is one entry of the GetSystemProcesses response.
type ProcessInfo struct {
	PID     int     `json:"pid"`
	Name    string  `json:"name"`
	CPU     float64 `json:"cpu_percent"`
	Memory  uint64  `json:"memory_bytes"`
}

func (c *Client) GetSystemProcesses(ctx context.Context) ([]ProcessInfo, error) {
	var out []ProcessInfo
	err := c.Call(ctx, "GetSystemProcesses", GetSystemProcessesParams{}, &out, 0)
	return out, err
}

func (c *Client) GetVersion(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	err := c.Call(ctx, "GetVersion", GetVersionParams{}, &out, 0)
	return out.Version, err
}
