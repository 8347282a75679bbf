package actionstate

import "sync"

// Registry is a concurrent map from resource id to its Cell, one per
// resource kind.
type Registry struct {
	mu    sync.Mutex
	cells map[string]*Cell
}

func NewRegistry() *Registry {
	return &Registry{cells: make(map[string]*Cell)}
}

// GetOrInsert returns the Cell for id, creating an empty one (all flags
// clear) if this is the first reference.
func (r *Registry) GetOrInsert(id string) *Cell {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cells[id]
	if !ok {
		c = &Cell{}
		r.cells[id] = c
	}
	return c
}

// Snapshot returns the current flags for id without creating a cell for
// resources that have never been touched.
func (r *Registry) Snapshot(id string) Flags {
	r.mu.Lock()
	c, ok := r.cells[id]
	r.mu.Unlock()
	if !ok {
		return 0
	}
	return c.Snapshot()
}

// Registries bundles one Registry per resource kind that tracks action
// state: Deployment, Stack, Procedure, and Action each carry their own
// flag struct.
type Registries struct {
	Deployments *Registry
	Stacks      *Registry
	Procedures  *Registry
	Actions     *Registry
}

func NewRegistries() *Registries {
	return &Registries{
		Deployments: NewRegistry(),
		Stacks:      NewRegistry(),
		Procedures:  NewRegistry(),
		Actions:     NewRegistry(),
	}
}
