package store

import (
	"sort"

	"github.com/cuemby/komodo-core/pkg/komodo"
)

// GetByName is the shared "find by name" lookup, one generic helper
// reused by every resource collection instead of a hand-written lookup
// per bucket.
func GetByName[T Keyed](c Collection[T], name string, nameOf func(T) string) (T, bool, error) {
	return c.Find(func(v T) bool { return nameOf(v) == name })
}

func (db *DB) DeploymentByName(name string) (komodo.Deployment, bool, error) {
	rec, ok, err := GetByName(db.Deployments, name, func(d storedDeployment) string { return d.Name })
	return rec.Deployment, ok, err
}

func (db *DB) StackByName(name string) (komodo.Stack, bool, error) {
	rec, ok, err := GetByName(db.Stacks, name, func(s storedStack) string { return s.Name })
	return rec.Stack, ok, err
}

func (db *DB) ServerByName(name string) (komodo.Server, bool, error) {
	rec, ok, err := GetByName(db.Servers, name, func(s storedServer) string { return s.Name })
	return rec.Server, ok, err
}

func (db *DB) ProcedureByName(name string) (komodo.Procedure, bool, error) {
	rec, ok, err := GetByName(db.Procedures, name, func(p storedProcedure) string { return p.Name })
	return rec.Procedure, ok, err
}

func (db *DB) ActionByName(name string) (komodo.Action, bool, error) {
	rec, ok, err := GetByName(db.Actions, name, func(a storedAction) string { return a.Name })
	return rec.Action, ok, err
}

// PutUpdate persists a single Update record, inserting or overwriting
// by ID.
func (db *DB) PutUpdate(u komodo.Update) error {
	return db.Updates.Put(storedUpdate{u})
}

// GetUpdate fetches one Update by id.
func (db *DB) GetUpdate(id string) (komodo.Update, error) {
	rec, err := db.Updates.Get(id)
	return rec.Update, err
}

// ListUpdates returns every persisted Update, in arbitrary (bbolt key)
// order; callers needing a specific order should sort the result.
func (db *DB) ListUpdates() ([]komodo.Update, error) {
	recs, err := db.Updates.List()
	if err != nil {
		return nil, err
	}
	out := make([]komodo.Update, len(recs))
	for i, r := range recs {
		out[i] = r.Update
	}
	return out, nil
}

// UpdatesByTarget returns every Update for one resource target, newest
// first. bbolt has no secondary index, so this filters the full
// bucket; at the expected scale (thousands, not millions, of updates
// per resource) a linear scan per request is an acceptable cost.
func (db *DB) UpdatesByTarget(kind komodo.ResourceKind, id string, limit int) ([]komodo.Update, error) {
	matches, err := db.Updates.Filter(func(u storedUpdate) bool {
		return u.Target.Kind == kind && u.Target.ID == id
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartedAt.After(matches[j].StartedAt)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]komodo.Update, len(matches))
	for i, m := range matches {
		out[i] = m.Update
	}
	return out, nil
}

// StatsPageSize is the fixed page size used when listing historical
// server stats.
const StatsPageSize = 200

// StatsPage returns one page of a server's stats history, newest
// first, indexed by (server id, timestamp) and paginated
// StatsPageSize records at a time.
func (db *DB) StatsPage(serverID string, page int) ([]komodo.StatsRecord, error) {
	matches, err := db.Stats.Filter(func(s storedStats) bool { return s.ServerID == serverID })
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Timestamp.After(matches[j].Timestamp)
	})
	start := page * StatsPageSize
	if start >= len(matches) {
		return nil, nil
	}
	end := start + StatsPageSize
	if end > len(matches) {
		end = len(matches)
	}
	out := make([]komodo.StatsRecord, end-start)
	for i, m := range matches[start:end] {
		out[i] = m.StatsRecord
	}
	return out, nil
}
