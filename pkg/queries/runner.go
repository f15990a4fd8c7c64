package queries

import (
	"fmt"
	"strings"
	"sync"
)

// runnerRegistry implements RunnerRegistry.
type runnerRegistry struct {
	runnersByType map[string]Runner
	mu            sync.RWMutex
}

// NewRunnerRegistry builds a registry for the provided runner implementations
// keyed by query type.
func NewRunnerRegistry(runners ...Runner) RunnerRegistry {
	reg := &runnerRegistry{
		runnersByType: make(map[string]Runner),
	}
	for _, r := range runners {
		reg.registerRunner(r)
	}
	return reg
}

// registerRunner registers a runner under its query type.
func (r *runnerRegistry) registerRunner(runner Runner) {
	if runner == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(runner.Type()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.runnersByType[key] = runner
	r.mu.Unlock()
}

// RunnerFor selects the runner for the given query based on its type.
func (r *runnerRegistry) RunnerFor(q Query) (Runner, error) {
	if r == nil {
		return nil, fmt.Errorf("runner registry is nil")
	}
	if strings.TrimSpace(q.ID) == "" {
		return nil, fmt.Errorf("query id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	typeKey := strings.ToLower(strings.TrimSpace(q.Type))
	if runner, ok := r.runnersByType[typeKey]; ok {
		return runner, nil
	}

	return nil, fmt.Errorf("no runner registered for query %q (type %q)", q.ID, q.Type)
}

// DefaultRunnerRegistry wires up runners for all supported query types.
func DefaultRunnerRegistry(api API) RunnerRegistry {
	return NewRunnerRegistry(
		NewAdvancedRunner(api),
		NewDomainRunner(api),
		NewEmailRunner(api),
	)
}
