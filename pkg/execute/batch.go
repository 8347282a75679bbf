package execute

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/cuemby/komodo-core/pkg/kerrors"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/metrics"
)

// BatchExecutionResponse is one resolved target's outcome from a Batch
// dispatch: exactly one of Update or Error is set, mirroring the
// spec's {name, result: Ok(Update)|Err(message)} shape as a Go struct
// rather than a tagged union.
type BatchExecutionResponse struct {
	Name   string         `json:"name"`
	Update *komodo.Update `json:"update,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// batchTarget is one candidate resource a Batch pattern can match.
type batchTarget struct {
	id   string
	name string
	tags []string
}

// variantEntry describes how to enumerate and build the singleton
// Execution for one batchable Variant kind.
type variantEntry struct {
	list  func(d *Dispatcher) ([]batchTarget, error)
	build func(id, service string, stopTime *int) komodo.Execution
}

var variantCatalog = map[komodo.ExecutionKind]variantEntry{
	komodo.ExecDeployStack: {
		list: listStacks,
		build: func(id, service string, stopTime *int) komodo.Execution {
			return komodo.DeployStack{Stack: id, Service: service, StopTime: stopTime}
		},
	},
	komodo.ExecDeployStackIfChanged: {
		list: listStacks,
		build: func(id, _ string, stopTime *int) komodo.Execution {
			return komodo.DeployStackIfChanged{Stack: id, StopTime: stopTime}
		},
	},
	komodo.ExecPullStack: {
		list: listStacks,
		build: func(id, service string, _ *int) komodo.Execution {
			return komodo.PullStack{Stack: id, Service: service}
		},
	},
	komodo.ExecStartStack: {
		list: listStacks,
		build: func(id, service string, _ *int) komodo.Execution {
			return komodo.StartStack{Stack: id, Service: service}
		},
	},
	komodo.ExecRestartStack: {
		list: listStacks,
		build: func(id, service string, _ *int) komodo.Execution {
			return komodo.RestartStack{Stack: id, Service: service}
		},
	},
	komodo.ExecPauseStack: {
		list: listStacks,
		build: func(id, service string, _ *int) komodo.Execution {
			return komodo.PauseStack{Stack: id, Service: service}
		},
	},
	komodo.ExecUnpauseStack: {
		list: listStacks,
		build: func(id, service string, _ *int) komodo.Execution {
			return komodo.UnpauseStack{Stack: id, Service: service}
		},
	},
	komodo.ExecStopStack: {
		list: listStacks,
		build: func(id, service string, stopTime *int) komodo.Execution {
			return komodo.StopStack{Stack: id, Service: service, StopTime: stopTime}
		},
	},
	komodo.ExecDestroyStack: {
		list: listStacks,
		build: func(id, service string, stopTime *int) komodo.Execution {
			return komodo.DestroyStack{Stack: id, Service: service, StopTime: stopTime}
		},
	},
	komodo.ExecDeployDeployment: {
		list: listDeployments,
		build: func(id, _ string, _ *int) komodo.Execution { return komodo.DeployDeployment{Deployment: id} },
	},
	komodo.ExecPullDeployment: {
		list: listDeployments,
		build: func(id, _ string, _ *int) komodo.Execution { return komodo.PullDeployment{Deployment: id} },
	},
	komodo.ExecStartDeployment: {
		list: listDeployments,
		build: func(id, _ string, _ *int) komodo.Execution { return komodo.StartDeployment{Deployment: id} },
	},
	komodo.ExecRestartDeployment: {
		list: listDeployments,
		build: func(id, _ string, _ *int) komodo.Execution { return komodo.RestartDeployment{Deployment: id} },
	},
	komodo.ExecPauseDeployment: {
		list: listDeployments,
		build: func(id, _ string, _ *int) komodo.Execution { return komodo.PauseDeployment{Deployment: id} },
	},
	komodo.ExecUnpauseDeployment: {
		list: listDeployments,
		build: func(id, _ string, _ *int) komodo.Execution { return komodo.UnpauseDeployment{Deployment: id} },
	},
	komodo.ExecStopDeployment: {
		list: listDeployments,
		build: func(id, _ string, stopTime *int) komodo.Execution {
			return komodo.StopDeployment{Deployment: id, StopTime: stopTime}
		},
	},
	komodo.ExecDestroyDeployment: {
		list: listDeployments,
		build: func(id, _ string, stopTime *int) komodo.Execution {
			return komodo.DestroyDeployment{Deployment: id, StopTime: stopTime}
		},
	},
	komodo.ExecRunProcedure: {
		list:  listProcedures,
		build: func(id, _ string, _ *int) komodo.Execution { return komodo.RunProcedure{Procedure: id} },
	},
	komodo.ExecRunAction: {
		list:  listActions,
		build: func(id, _ string, _ *int) komodo.Execution { return komodo.RunAction{Action: id} },
	},
}

func listStacks(d *Dispatcher) ([]batchTarget, error) {
	stacks, err := d.store.ListStacks()
	if err != nil {
		return nil, err
	}
	out := make([]batchTarget, len(stacks))
	for i, s := range stacks {
		out[i] = batchTarget{id: s.ID, name: s.Name, tags: s.Tags}
	}
	return out, nil
}

func listDeployments(d *Dispatcher) ([]batchTarget, error) {
	deployments, err := d.store.ListDeployments()
	if err != nil {
		return nil, err
	}
	out := make([]batchTarget, len(deployments))
	for i, dep := range deployments {
		out[i] = batchTarget{id: dep.ID, name: dep.Name, tags: dep.Tags}
	}
	return out, nil
}

func listProcedures(d *Dispatcher) ([]batchTarget, error) {
	procedures, err := d.store.ListProcedures()
	if err != nil {
		return nil, err
	}
	out := make([]batchTarget, len(procedures))
	for i, p := range procedures {
		out[i] = batchTarget{id: p.ID, name: p.Name, tags: p.Tags}
	}
	return out, nil
}

func listActions(d *Dispatcher) ([]batchTarget, error) {
	actions, err := d.store.ListActions()
	if err != nil {
		return nil, err
	}
	out := make([]batchTarget, len(actions))
	for i, a := range actions {
		out[i] = batchTarget{id: a.ID, name: a.Name, tags: a.Tags}
	}
	return out, nil
}

// splitPatterns breaks a comma/whitespace-separated pattern list into
// its individual tokens.
func splitPatterns(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// matchToken reports whether target satisfies one pattern token: a
// `#tag` selector (optionally `#tag1+tag2` to require every listed tag,
// AND-within-selector), or else a literal/glob name match (`*`, `?`).
func matchToken(token string, target batchTarget) bool {
	if strings.HasPrefix(token, "#") {
		want := strings.Split(strings.TrimPrefix(token, "#"), "+")
		have := make(map[string]struct{}, len(target.tags))
		for _, t := range target.tags {
			have[t] = struct{}{}
		}
		for _, w := range want {
			if _, ok := have[w]; !ok {
				return false
			}
		}
		return true
	}
	ok, _ := path.Match(token, target.name)
	return ok
}

// resolveBatch matches pattern against every candidate target,
// OR-ing across pattern tokens, deduplicating by id, and returning the
// matches sorted by name for deterministic dispatch order.
func resolveBatch(pattern string, candidates []batchTarget) []batchTarget {
	tokens := splitPatterns(pattern)
	seen := make(map[string]bool, len(candidates))
	var matched []batchTarget
	for _, c := range candidates {
		if seen[c.id] {
			continue
		}
		for _, tok := range tokens {
			if matchToken(tok, c) {
				matched = append(matched, c)
				seen[c.id] = true
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].name < matched[j].name })
	return matched
}

// DispatchBatch fans b out to every resource its Pattern matches among
// b.Variant's candidates, dispatching up to the Dispatcher's configured
// concurrency at once.
func (d *Dispatcher) DispatchBatch(ctx context.Context, b komodo.Batch, service, userID string) ([]BatchExecutionResponse, error) {
	entry, ok := variantCatalog[b.Variant]
	if !ok {
		return nil, kerrors.Precondition("variant %s is not batchable", b.Variant)
	}

	candidates, err := entry.list(d)
	if err != nil {
		return nil, kerrors.PersistenceFailure(err, "list candidates for batch variant %s", b.Variant)
	}

	matched := resolveBatch(b.Pattern, candidates)
	metrics.BatchExecutionSize.Observe(float64(len(matched)))

	responses := make([]BatchExecutionResponse, len(matched))
	sem := make(chan struct{}, d.concurrency)
	var wg sync.WaitGroup

	for i, target := range matched {
		wg.Add(1)
		go func(i int, target batchTarget) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			exec := entry.build(target.id, service, b.StopTime)
			update, err := d.Dispatch(ctx, exec, userID)
			if err != nil {
				responses[i] = BatchExecutionResponse{Name: target.name, Error: err.Error()}
				return
			}
			responses[i] = BatchExecutionResponse{Name: target.name, Update: update}
		}(i, target)
	}
	wg.Wait()

	return responses, nil
}
