// Package store provides CaseStore implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/maternity-engine/maternity"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements maternity.CaseStore with the same optimistic
// version semantics as the SQLite store. Reads and writes deep-copy so
// callers never alias stored state.
type Memory struct {
	mu    sync.RWMutex
	cases map[string]*maternity.Case
}

func NewMemory() *Memory {
	return &Memory{cases: make(map[string]*maternity.Case)}
}

func (m *Memory) GetCase(_ context.Context, id string) (*maternity.Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.cases[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", maternity.ErrCaseNotFound, id)
	}
	return c.Clone(), nil
}

func (m *Memory) ListCases(_ context.Context, includeArchived bool) ([]*maternity.Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*maternity.Case
	for _, c := range m.cases {
		if !includeArchived && c.Status == maternity.CaseArchived {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MaternityStartDate.Before(out[j].MaternityStartDate)
	})
	return out, nil
}

func (m *Memory) SaveCase(_ context.Context, c *maternity.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.cases[c.ID]
	switch {
	case !ok && c.Version != 1:
		return maternity.ErrConcurrentModification
	case ok && existing.Version != c.Version-1:
		return maternity.ErrConcurrentModification
	}

	m.cases[c.ID] = c.Clone()
	return nil
}
