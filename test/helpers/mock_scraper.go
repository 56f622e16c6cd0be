package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
)

// MockScraper is a test double for the application Scraper port
type MockScraper struct {
	mu sync.Mutex

	inventories []*farm.Inventory
	err         error
	index       int

	// Calls counts Scrape invocations
	Calls int
}

// NewMockScraper creates a scraper double returning the given inventories in
// order, the last one repeating
func NewMockScraper(inventories ...*farm.Inventory) *MockScraper {
	return &MockScraper{inventories: inventories}
}

// Fail makes every scrape return err
func (m *MockScraper) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// CallCount returns the number of Scrape invocations. Safe to poll while a
// worker goroutine is still running.
func (m *MockScraper) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockScraper) Scrape(ctx context.Context, account *farm.Account) (*farm.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.inventories) == 0 {
		return farm.NewInventory(), nil
	}
	inv := m.inventories[m.index]
	if m.index < len(m.inventories)-1 {
		m.index++
	}
	return inv, nil
}
