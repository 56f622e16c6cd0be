package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// MockSession is a test double for the ports.Session interface
type MockSession struct {
	mu sync.Mutex

	active     bool
	serverTime time.Time

	// Recorded calls
	IdleCalls       []int
	VisibilityCalls []bool
	RedeemedKeys    []string

	// Configured behavior
	IdleErr       error
	VisibilityErr error
	RedeemResults []ports.RedeemResult
	RedeemErr     error

	redeemIndex int
}

// NewMockSession creates a session double that reports active
func NewMockSession() *MockSession {
	return &MockSession{active: true, serverTime: time.Unix(1600000000, 0)}
}

// SetActive flips the session's authenticated state
func (m *MockSession) SetActive(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = active
}

// SetServerTime fixes the time returned by ServerTime
func (m *MockSession) SetServerTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serverTime = t
}

func (m *MockSession) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *MockSession) SetIdleGame(ctx context.Context, titleID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IdleErr != nil {
		return m.IdleErr
	}
	m.IdleCalls = append(m.IdleCalls, titleID)
	return nil
}

func (m *MockSession) SetVisibility(ctx context.Context, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.VisibilityErr != nil {
		return m.VisibilityErr
	}
	m.VisibilityCalls = append(m.VisibilityCalls, online)
	return nil
}

func (m *MockSession) ServerTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.serverTime
}

func (m *MockSession) RedeemKey(ctx context.Context, key string) (ports.RedeemResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RedeemedKeys = append(m.RedeemedKeys, key)
	if m.RedeemErr != nil {
		return 0, m.RedeemErr
	}
	if m.redeemIndex < len(m.RedeemResults) {
		result := m.RedeemResults[m.redeemIndex]
		m.redeemIndex++
		return result, nil
	}
	return ports.RedeemOK, nil
}

// LastIdleCall returns the most recent SetIdleGame argument, or false when
// none was recorded
func (m *MockSession) LastIdleCall() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.IdleCalls) == 0 {
		return 0, false
	}
	return m.IdleCalls[len(m.IdleCalls)-1], true
}

var _ ports.Session = (*MockSession)(nil)
