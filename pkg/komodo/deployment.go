package komodo

// Deployment is a single-container deployable unit pinned to one Server.
type Deployment struct {
	Envelope
	Config DeploymentConfig `json:"config"`
	Info   DeploymentInfo   `json:"info"`
}

// DeploymentConfig is the user-declared desired state of a Deployment.
type DeploymentConfig struct {
	// Image is either a registry reference ("repo:tag") or, when BuildID
	// is set, ignored in favor of the referenced Build's produced image.
	Image            string            `json:"image,omitempty"`
	BuildID          string            `json:"build_id,omitempty"`
	ServerID         string            `json:"server_id,omitempty"`
	Env              []string          `json:"env,omitempty"`
	ExtraArgs        []string          `json:"extra_args,omitempty"`
	TerminationSignal string           `json:"termination_signal,omitempty"`
	TerminationTimeout int             `json:"termination_timeout,omitempty"`
	Networks         []string          `json:"networks,omitempty"`
	Volumes          []string          `json:"volumes,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	RestartPolicy    string            `json:"restart_policy,omitempty"`
}

// DeploymentInfo is derived, cached state about a Deployment.
type DeploymentInfo struct {
	ContainerID string `json:"container_id,omitempty"`
	State       string `json:"state,omitempty"`
}

// ActionState flags for a Deployment.
type DeploymentActionState struct {
	Deploying  bool `json:"deploying"`
	Pulling    bool `json:"pulling"`
	Starting   bool `json:"starting"`
	Restarting bool `json:"restarting"`
	Pausing    bool `json:"pausing"`
	Unpausing  bool `json:"unpausing"`
	Stopping   bool `json:"stopping"`
	Destroying bool `json:"destroying"`
}

// Busy reports whether any flag in the state is set.
func (s DeploymentActionState) Busy() bool {
	return s.Deploying || s.Pulling || s.Starting || s.Restarting ||
		s.Pausing || s.Unpausing || s.Stopping || s.Destroying
}
