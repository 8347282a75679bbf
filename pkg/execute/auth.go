package execute

import "github.com/cuemby/komodo-core/pkg/komodo"

// Authorizer resolves whether userID holds at least Execute permission
// on target.
//
// The Dispatcher stores one (AllowAll unless SetAuthorizer replaces it),
// but Dispatch and DispatchBatch do not call it: no execution is
// rejected as kerrors.Unauthorized. AllowAll is the only concrete
// implementation in this build.
type Authorizer interface {
	CanExecute(userID string, target komodo.ResourceTarget) error
}

// AllowAll grants every Execute check unconditionally.
type AllowAll struct{}

func (AllowAll) CanExecute(string, komodo.ResourceTarget) error { return nil }
