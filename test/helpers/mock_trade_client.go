package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// MockTradeClient is a test double for ports.TradeClient
type MockTradeClient struct {
	mu sync.Mutex

	// Recorded calls
	Accepted []ports.TradeOffer
	Declined []ports.TradeOffer

	// Configured behavior
	AcceptErr  error
	DeclineErr error
}

// NewMockTradeClient creates a trade client double that succeeds
func NewMockTradeClient() *MockTradeClient {
	return &MockTradeClient{}
}

func (m *MockTradeClient) Accept(ctx context.Context, offer ports.TradeOffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AcceptErr != nil {
		return m.AcceptErr
	}
	m.Accepted = append(m.Accepted, offer)
	return nil
}

func (m *MockTradeClient) Decline(ctx context.Context, offer ports.TradeOffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeclineErr != nil {
		return m.DeclineErr
	}
	m.Declined = append(m.Declined, offer)
	return nil
}

var _ ports.TradeClient = (*MockTradeClient)(nil)
