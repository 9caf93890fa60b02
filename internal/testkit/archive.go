package testkit

import (
	"context"
	"sync"

	"goab/domain/core"
	"goab/domain/stats"
	"goab/ports"
)

// InMemoryRunArchive is a RunRepository backed by a map, for tests
// and archive-less deployments. Runs are listed newest first.
type InMemoryRunArchive struct {
	mu    sync.RWMutex
	runs  map[core.RunID]*stats.RunResult
	order []core.RunID
}

var _ ports.RunRepository = (*InMemoryRunArchive)(nil)

// NewInMemoryRunArchive creates an empty archive
func NewInMemoryRunArchive() *InMemoryRunArchive {
	return &InMemoryRunArchive{runs: make(map[core.RunID]*stats.RunResult)}
}

// SaveRun stores a run, overwriting any previous run with the same ID
func (a *InMemoryRunArchive) SaveRun(_ context.Context, run *stats.RunResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.runs[run.ID]; !exists {
		a.order = append(a.order, run.ID)
	}
	stored := *run
	a.runs[run.ID] = &stored
	return nil
}

// GetRun fetches a run by ID
func (a *InMemoryRunArchive) GetRun(_ context.Context, id core.RunID) (*stats.RunResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	run, ok := a.runs[id]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	copied := *run
	return &copied, nil
}

// ListRuns returns up to limit runs, most recent first. A limit of
// zero or less means no limit.
func (a *InMemoryRunArchive) ListRuns(_ context.Context, limit int) ([]*stats.RunResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*stats.RunResult, 0, len(a.order))
	for i := len(a.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		copied := *a.runs[a.order[i]]
		out = append(out, &copied)
	}
	return out, nil
}

// Len reports the number of stored runs
func (a *InMemoryRunArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.runs)
}
