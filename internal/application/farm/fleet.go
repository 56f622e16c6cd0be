package farm

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// Managed bundles one account with its session collaborator and worker.
// Trade is optional; accounts without it never receive routed offers.
type Managed struct {
	Account *farm.Account
	Session ports.Session
	Worker  *Worker
	Trade   ports.TradeClient
}

// Fleet is the roster of managed accounts. Built once at process startup
// and read-mostly afterwards; account state itself is owned by each
// account's worker, never touched through the fleet directly.
type Fleet struct {
	order   []string
	members map[string]*Managed
}

// NewFleet creates an empty fleet
func NewFleet() *Fleet {
	return &Fleet{members: make(map[string]*Managed)}
}

// Add registers a managed account. Duplicate ids are rejected.
func (f *Fleet) Add(m *Managed) error {
	if m == nil || m.Account == nil {
		return fmt.Errorf("managed account cannot be nil")
	}
	if _, exists := f.members[m.Account.ID]; exists {
		return fmt.Errorf("account %s already registered", m.Account.ID)
	}
	f.order = append(f.order, m.Account.ID)
	f.members[m.Account.ID] = m
	return nil
}

// Get returns the managed account for id
func (f *Fleet) Get(id string) (*Managed, bool) {
	m, ok := f.members[id]
	return m, ok
}

// Members returns the managed accounts in registration order
func (f *Fleet) Members() []*Managed {
	members := make([]*Managed, 0, len(f.order))
	for _, id := range f.order {
		members = append(members, f.members[id])
	}
	return members
}

// Size returns the number of managed accounts
func (f *Fleet) Size() int {
	return len(f.order)
}

// Statuses collects every account's summary through its worker mailbox, so
// reads never race with the worker's own mutations.
func (f *Fleet) Statuses(ctx context.Context) ([]farm.Status, error) {
	statuses := make([]farm.Status, 0, len(f.order))
	for _, m := range f.Members() {
		status, err := m.Worker.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("status for account %s: %w", m.Account.ID, err)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
