package report

import (
	"context"
	"fmt"
	"sync"

	"github.com/fleetwatch/fleetwatch/internal/domain"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps reports in memory, copying them in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]domain.Report)}
}

func (m *MemoryStore) Put(ctx context.Context, r domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reports[r.ID]; ok {
		return fmt.Errorf("%w: %s", errExists, r.ID)
	}

	r.Snapshot = r.Snapshot.Clone()
	m.reports[r.ID] = r
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return domain.Report{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[id]
	if !ok {
		return domain.Report{}, fmt.Errorf("%w: %s", errNotFound, id)
	}

	r.Snapshot = r.Snapshot.Clone()
	return r, nil
}

func (m *MemoryStore) Summaries(ctx context.Context) ([]domain.ReportSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ReportSummary, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r.Summary())
	}
	return out, nil
}
