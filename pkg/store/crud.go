package store

import "github.com/cuemby/komodo-core/pkg/komodo"

// Typed Put/Get/List/Delete wrappers per resource collection. These
// exist so callers outside this package never need to know about the
// unexported stored* wrapper types; they pass and receive plain
// komodo.* values.

func (db *DB) PutDeployment(d komodo.Deployment) error {
	return db.Deployments.Put(storedDeployment{d})
}

func (db *DB) GetDeployment(id string) (komodo.Deployment, error) {
	rec, err := db.Deployments.Get(id)
	return rec.Deployment, err
}

func (db *DB) ListDeployments() ([]komodo.Deployment, error) {
	recs, err := db.Deployments.List()
	if err != nil {
		return nil, err
	}
	out := make([]komodo.Deployment, len(recs))
	for i, r := range recs {
		out[i] = r.Deployment
	}
	return out, nil
}

func (db *DB) DeleteDeployment(id string) error { return db.Deployments.Delete(id) }

func (db *DB) PutStack(s komodo.Stack) error {
	return db.Stacks.Put(storedStack{s})
}

func (db *DB) GetStack(id string) (komodo.Stack, error) {
	rec, err := db.Stacks.Get(id)
	return rec.Stack, err
}

func (db *DB) ListStacks() ([]komodo.Stack, error) {
	recs, err := db.Stacks.List()
	if err != nil {
		return nil, err
	}
	out := make([]komodo.Stack, len(recs))
	for i, r := range recs {
		out[i] = r.Stack
	}
	return out, nil
}

func (db *DB) DeleteStack(id string) error { return db.Stacks.Delete(id) }

func (db *DB) PutServer(s komodo.Server) error {
	return db.Servers.Put(storedServer{s})
}

func (db *DB) GetServer(id string) (komodo.Server, error) {
	rec, err := db.Servers.Get(id)
	return rec.Server, err
}

func (db *DB) ListServers() ([]komodo.Server, error) {
	recs, err := db.Servers.List()
	if err != nil {
		return nil, err
	}
	out := make([]komodo.Server, len(recs))
	for i, r := range recs {
		out[i] = r.Server
	}
	return out, nil
}

func (db *DB) DeleteServer(id string) error { return db.Servers.Delete(id) }

func (db *DB) PutProcedure(p komodo.Procedure) error {
	return db.Procedures.Put(storedProcedure{p})
}

func (db *DB) GetProcedure(id string) (komodo.Procedure, error) {
	rec, err := db.Procedures.Get(id)
	return rec.Procedure, err
}

func (db *DB) ListProcedures() ([]komodo.Procedure, error) {
	recs, err := db.Procedures.List()
	if err != nil {
		return nil, err
	}
	out := make([]komodo.Procedure, len(recs))
	for i, r := range recs {
		out[i] = r.Procedure
	}
	return out, nil
}

func (db *DB) DeleteProcedure(id string) error { return db.Procedures.Delete(id) }

func (db *DB) PutAction(a komodo.Action) error {
	return db.Actions.Put(storedAction{a})
}

func (db *DB) GetAction(id string) (komodo.Action, error) {
	rec, err := db.Actions.Get(id)
	return rec.Action, err
}

func (db *DB) ListActions() ([]komodo.Action, error) {
	recs, err := db.Actions.List()
	if err != nil {
		return nil, err
	}
	out := make([]komodo.Action, len(recs))
	for i, r := range recs {
		out[i] = r.Action
	}
	return out, nil
}

func (db *DB) DeleteAction(id string) error { return db.Actions.Delete(id) }

func (db *DB) PutVariable(v komodo.Variable) error {
	return db.Variables.Put(storedVariable{v})
}

func (db *DB) GetVariable(name string) (komodo.Variable, error) {
	rec, err := db.Variables.Get(name)
	return rec.Variable, err
}

func (db *DB) ListVariables() ([]komodo.Variable, error) {
	recs, err := db.Variables.List()
	if err != nil {
		return nil, err
	}
	out := make([]komodo.Variable, len(recs))
	for i, r := range recs {
		out[i] = r.Variable
	}
	return out, nil
}

func (db *DB) DeleteVariable(name string) error { return db.Variables.Delete(name) }
