package gitpull

import (
	"fmt"
	"path/filepath"

	"github.com/cuemby/komodo-core/pkg/komodo"
)

// CloneArgs names the repo to clone/pull and how to reach it, per the
// fields of komodo.StackConfig that describe a git source.
type CloneArgs struct {
	Provider string // e.g. "github.com"
	Account  string
	HTTPS    bool
	Repo     string // "<account>/<name>"
	Branch   string
	Commit   string // optional; pin to this commit after pulling
	OnPull   *komodo.SystemCommand
}

// Path returns the working-copy directory for these clone args, rooted
// under repoDir.
func (a CloneArgs) Path(repoDir string) string {
	return filepath.Join(repoDir, a.Repo)
}

// RemoteURL builds the origin URL, embedding an access token for HTTPS
// auth when one is supplied. A Provider given as an absolute filesystem
// path (a local mirror, already naming the repo on disk) is returned
// verbatim, with no scheme, token, or Repo suffix appended.
func (a CloneArgs) RemoteURL(accessToken string) string {
	if filepath.IsAbs(a.Provider) {
		return a.Provider
	}

	scheme := "https"
	if !a.HTTPS {
		scheme = "http"
	}
	if accessToken == "" {
		return fmt.Sprintf("%s://%s/%s.git", scheme, a.Provider, a.Repo)
	}
	return fmt.Sprintf("%s://oauth2:%s@%s/%s.git", scheme, accessToken, a.Provider, a.Repo)
}
