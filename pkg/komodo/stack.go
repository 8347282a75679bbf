package komodo

// Stack is a compose-based deployable unit spanning multiple services
// under one compose project, pinned to one Server.
type Stack struct {
	Envelope
	Config StackConfig `json:"config"`
	Info   StackInfo   `json:"info"`
}

// StackConfig is the user-declared desired state of a Stack. Exactly one
// of FileContents or the git fields (Repo) is the source of the compose
// file contents.
type StackConfig struct {
	FileContents string `json:"file_contents,omitempty"`

	GitProvider string `json:"git_provider,omitempty"`
	GitAccount  string `json:"git_account,omitempty"`
	GitHTTPS    bool   `json:"git_https"`
	Repo        string `json:"repo,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Commit      string `json:"commit,omitempty"`
	OnClone     SystemCommand `json:"on_clone,omitempty"`
	OnPull      SystemCommand `json:"on_pull,omitempty"`

	ServerID     string   `json:"server_id,omitempty"`
	Environment  string   `json:"environment,omitempty"`
	EnvFilePath  string   `json:"env_file_path,omitempty"`
	ExtraArgs    []string `json:"extra_args,omitempty"`
	BuildExtraArgs []string `json:"build_extra_args,omitempty"`
	PreDeploy    SystemCommand `json:"pre_deploy,omitempty"`

	RegistryProvider string `json:"registry_provider,omitempty"`
	RegistryAccount  string `json:"registry_account,omitempty"`

	SkipSecretInterp   bool   `json:"skip_secret_interp"`
	ProjectNameOverride string `json:"project_name_override,omitempty"`
}

// SystemCommand is a shell command plus the working-directory suffix it
// runs under, relative to the repo root.
type SystemCommand struct {
	Path    string `json:"path,omitempty"`
	Command string `json:"command,omitempty"`
}

// IsGit reports whether the stack sources its compose file from git
// rather than inline FileContents.
func (c *StackConfig) IsGit() bool {
	return c.FileContents == ""
}

// ProjectName computes the compose project name for this stack. When
// includeLatest is true and an override is not set, the stack's own
// name is used (matching the "get the latest project name, as it may
// have changed since the last deploy" rule from the original).
func (c *StackConfig) ProjectName(name string, includeLatest bool) string {
	if c.ProjectNameOverride != "" {
		return c.ProjectNameOverride
	}
	if includeLatest {
		return name
	}
	return name
}

// FileContentsEntry is one path+contents pair of a (possibly multi-file)
// compose project, used for the deployed/remote content diff.
type FileContentsEntry struct {
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

// StackInfo is derived, cached state about a Stack, advanced only on a
// successful deploy.
type StackInfo struct {
	LatestServices  []string `json:"latest_services,omitempty"`
	DeployedServices []string `json:"deployed_services,omitempty"`

	DeployedContents []FileContentsEntry `json:"deployed_contents,omitempty"`
	DeployedHash     string              `json:"deployed_hash,omitempty"`
	DeployedMessage  string              `json:"deployed_message,omitempty"`

	LatestHash    string `json:"latest_hash,omitempty"`
	LatestMessage string `json:"latest_message,omitempty"`

	RemoteContents []FileContentsEntry `json:"remote_contents,omitempty"`
	RemoteErrors   []string            `json:"remote_errors,omitempty"`
	MissingFiles   []string            `json:"missing_files,omitempty"`

	DeployedProjectName string `json:"deployed_project_name,omitempty"`
}

// StackActionState flags for a Stack.
type StackActionState struct {
	Deploying  bool `json:"deploying"`
	Pulling    bool `json:"pulling"`
	Starting   bool `json:"starting"`
	Restarting bool `json:"restarting"`
	Pausing    bool `json:"pausing"`
	Unpausing  bool `json:"unpausing"`
	Stopping   bool `json:"stopping"`
	Destroying bool `json:"destroying"`
}

func (s StackActionState) Busy() bool {
	return s.Deploying || s.Pulling || s.Starting || s.Restarting ||
		s.Pausing || s.Unpausing || s.Stopping || s.Destroying
}
