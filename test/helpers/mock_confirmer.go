package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// MockConfirmer is a test double for the application Confirmer port
type MockConfirmer struct {
	mu sync.Mutex

	// Outcome returned by ResolvePending
	Outcome farm.ConfirmationOutcome
	Err     error

	// Calls counts ResolvePending invocations
	Calls int
}

// NewMockConfirmer creates a confirmer double with a zero outcome
func NewMockConfirmer() *MockConfirmer {
	return &MockConfirmer{}
}

func (m *MockConfirmer) ResolvePending(ctx context.Context, account *farm.Account, session ports.Session) (farm.ConfirmationOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return farm.ConfirmationOutcome{}, m.Err
	}
	return m.Outcome, nil
}

// CallCount returns how many times ResolvePending ran
func (m *MockConfirmer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
