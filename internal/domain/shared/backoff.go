package shared

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// MaxAttempts is the shared retry budget for network operations
	// (badge-page fetches, confirmation listing).
	MaxAttempts = 5
)

// BackoffPolicy produces jittered retry and stagger delays. It is a pure
// calculator: the same seed yields the same delay sequence, which keeps
// scheduling deterministic in tests.
type BackoffPolicy struct {
	min         time.Duration
	max         time.Duration
	maxAttempts int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBackoffPolicy creates a policy drawing uniform delays from [min, max).
// The random source is derived from seed; tests pass a fixed seed.
func NewBackoffPolicy(min, max time.Duration, seed int64) *BackoffPolicy {
	return &BackoffPolicy{
		min:         min,
		max:         max,
		maxAttempts: MaxAttempts,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// NewRetryPolicy returns the standard retry/stagger policy: uniform
// delays in [5s, 15s), 5 attempts.
func NewRetryPolicy(seed int64) *BackoffPolicy {
	return NewBackoffPolicy(5*time.Second, 15*time.Second, seed)
}

// NewResyncPolicy returns the post-redemption re-sync policy: uniform
// delays in [0s, 10s).
func NewResyncPolicy(seed int64) *BackoffPolicy {
	return NewBackoffPolicy(0, 10*time.Second, seed)
}

// NextDelay returns the delay to wait before the given 0-indexed attempt.
// The attempt number does not scale the delay; spacing is flat jitter.
func (p *BackoffPolicy) NextDelay(attempt int) time.Duration {
	span := p.max - p.min
	if span <= 0 {
		return p.min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.min + time.Duration(p.rng.Int63n(int64(span)))
}

// ShouldRetry reports whether another attempt is allowed after the given
// 0-indexed attempt count.
func (p *BackoffPolicy) ShouldRetry(attempt int) bool {
	return attempt < p.maxAttempts
}

// MaxAttempts returns the policy's attempt budget.
func (p *BackoffPolicy) MaxAttempts() int {
	return p.maxAttempts
}
