package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
)

// MockActivityLog is an in-memory ActivityLog double
type MockActivityLog struct {
	mu      sync.Mutex
	Entries []*farm.ActivityEntry
}

// NewMockActivityLog creates an empty activity log double
func NewMockActivityLog() *MockActivityLog {
	return &MockActivityLog{}
}

func (m *MockActivityLog) Record(ctx context.Context, entry *farm.ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockActivityLog) History(ctx context.Context, accountID string, limit int) ([]*farm.ActivityEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*farm.ActivityEntry
	for i := len(m.Entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.Entries[i].AccountID == accountID {
			out = append(out, m.Entries[i])
		}
	}
	return out, nil
}

// Kinds returns the recorded activity kinds in order
func (m *MockActivityLog) Kinds() []farm.ActivityKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]farm.ActivityKind, 0, len(m.Entries))
	for _, e := range m.Entries {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// MockSnapshotStore is an in-memory SnapshotStore double
type MockSnapshotStore struct {
	mu    sync.Mutex
	Saves int
	Last  []*farm.Title
}

// NewMockSnapshotStore creates an empty snapshot store double
func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{}
}

func (m *MockSnapshotStore) Save(ctx context.Context, accountID string, at time.Time, titles []*farm.Title) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	m.Last = titles
	return nil
}
