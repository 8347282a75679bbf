package store

import (
	"fmt"

	"github.com/cuemby/komodo-core/pkg/komodo"
)

// The stored* aliases give each komodo.* resource type the Key() method
// Collection[T] requires, without the resource package itself needing to
// know about storage keys. Stats additionally uses a composite key so
// bbolt's natural byte-order iteration gives a useful default order
// (server id, then ts); Updates are keyed by id alone.

type storedDeployment struct{ komodo.Deployment }

func (d storedDeployment) Key() string { return d.ID }

type storedStack struct{ komodo.Stack }

func (s storedStack) Key() string { return s.ID }

type storedServer struct{ komodo.Server }

func (s storedServer) Key() string { return s.ID }

type storedProcedure struct{ komodo.Procedure }

func (p storedProcedure) Key() string { return p.ID }

type storedAction struct{ komodo.Action }

func (a storedAction) Key() string { return a.ID }

type storedVariable struct{ komodo.Variable }

func (v storedVariable) Key() string { return v.Name }

// storedUpdate keys by id but List()+sort gives target/start_ts ordering;
// UpdatesByTarget below does the filtering GetUpdates needs.
type storedUpdate struct{ komodo.Update }

func (u storedUpdate) Key() string { return u.ID }

// storedStats keys on "<server_id>/<unix_nano_ts>" so ForEach iteration
// already groups and time-orders samples per server without a
// secondary index.
type storedStats struct{ komodo.StatsRecord }

func (s storedStats) Key() string {
	return fmt.Sprintf("%s/%020d", s.ServerID, s.Timestamp.UnixNano())
}
