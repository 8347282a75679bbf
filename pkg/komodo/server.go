package komodo

import "time"

// Server is a remote host running a Periphery agent.
type Server struct {
	Envelope
	Config ServerConfig `json:"config"`
	Info   ServerInfo   `json:"info"`
}

// ServerConfig is the user-declared desired state of a Server.
type ServerConfig struct {
	Address string `json:"address"`
	Enabled bool   `json:"enabled"`
	Region  string `json:"region,omitempty"`
}

// ServerState is the cached reachability state of a server.
type ServerState string

const (
	ServerStateOk       ServerState = "Ok"
	ServerStateNotOk    ServerState = "NotOk"
	ServerStateDisabled ServerState = "Disabled"
)

// ServerInfo is the cached runtime snapshot maintained by the Status
// Cache.
type ServerInfo struct {
	State            ServerState       `json:"state"`
	PeripheryVersion string            `json:"periphery_version,omitempty"`
	Stats            *SystemStats      `json:"stats,omitempty"`
	Containers       []ContainerListItem `json:"containers,omitempty"`
	Images           []ImageListItem     `json:"images,omitempty"`
	Networks         []NetworkListItem   `json:"networks,omitempty"`
	Volumes          []VolumeListItem    `json:"volumes,omitempty"`
	Projects         []ComposeProject    `json:"projects,omitempty"`
	LastPolledAt     time.Time         `json:"last_polled_at"`
}

// SystemStats is a point-in-time resource usage snapshot of a server.
type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryBytes   int64   `json:"memory_bytes"`
	MemoryTotal   int64   `json:"memory_total"`
	DiskBytes     int64   `json:"disk_bytes"`
	DiskTotal     int64   `json:"disk_total"`
}

// ContainerListItem summarizes one container on a server.
type ContainerListItem struct {
	Name   string            `json:"name"`
	Image  string            `json:"image"`
	State  string            `json:"state"`
	Labels map[string]string `json:"labels,omitempty"`
}

// SkipLabel is the container label that excludes a container from
// *AllContainers batch operations.
const SkipLabel = "komodo.skip"

// Skipped reports whether this container should be excluded from
// bulk *AllContainers operations.
func (c ContainerListItem) Skipped() bool {
	_, ok := c.Labels[SkipLabel]
	return ok
}

// ImageListItem summarizes one image on a server.
type ImageListItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NetworkListItem summarizes one network on a server.
type NetworkListItem struct {
	Name   string `json:"name"`
	Driver string `json:"driver"`
}

// VolumeListItem summarizes one volume on a server.
type VolumeListItem struct {
	Name   string `json:"name"`
	Driver string `json:"driver"`
}

// ComposeProject summarizes one compose project running on a server.
type ComposeProject struct {
	Name     string   `json:"name"`
	Services []string `json:"services,omitempty"`
}

// StatsRecord is one historical stats sample, persisted to the "stats"
// collection and indexed by (ServerID, Timestamp).
type StatsRecord struct {
	ServerID    string      `json:"server_id"`
	Timestamp   time.Time   `json:"ts"`
	Granularity string      `json:"granularity"`
	Stats       SystemStats `json:"stats"`
}
