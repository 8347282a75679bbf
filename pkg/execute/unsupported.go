package execute

import (
	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/cuemby/komodo-core/pkg/komodo"
)

// unsupported answers the Execution variants whose resource kind (Build,
// Repo, Sync, Alerter) has no backing store collection in this build.
// They remain part of the closed Execution sum type the dispatcher
// switches over — so adding that collection later only means adding a
// case here — but today every one of them fails the same way rather
// than being silently absent from the switch.
func (d *Dispatcher) unsupported(exec komodo.Execution, _ string) (*komodo.Update, error) {
	return nil, kerrors.Precondition("%s has no backing resource collection in this build", exec.Kind())
}
