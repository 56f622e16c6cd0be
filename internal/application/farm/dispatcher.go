package farm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
)

// Dispatcher fans farm-wide commands out across the fleet. Kickoffs are
// staggered with backoff-derived delays so the accounts never hit the
// network simultaneously.
type Dispatcher struct {
	fleet   *Fleet
	stagger *shared.BackoffPolicy
	clock   shared.Clock
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher over the fleet
func NewDispatcher(fleet *Fleet, stagger *shared.BackoffPolicy, clock shared.Clock, logger *zap.Logger) *Dispatcher {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{fleet: fleet, stagger: stagger, clock: clock, logger: logger}
}

// DispatchIdle posts an explicit idle command for titleID to every worker.
// Each worker checks its own inventory: accounts that do not hold the title
// take no action. Returns the number of workers the command reached.
func (d *Dispatcher) DispatchIdle(ctx context.Context, titleID int) int {
	posted := 0
	for _, m := range d.fleet.Members() {
		ev := NewEvent(EventIdle)
		ev.TitleID = titleID
		if m.Worker.Post(ev) {
			posted++
		}
	}
	d.logger.Info("farm idle dispatched",
		zap.Int("title_id", titleID),
		zap.Int("workers", posted))
	return posted
}

// DispatchRefresh schedules a staggered refresh for every account. Delays
// are drawn up front so the sequence stays deterministic under a seeded
// policy; the timers themselves are fire-and-forget and re-check session
// activity when they fire.
func (d *Dispatcher) DispatchRefresh(ctx context.Context) int {
	members := d.fleet.Members()
	for i, m := range members {
		var delay time.Duration
		if i > 0 {
			delay = d.stagger.NextDelay(i)
		}
		go d.kickoff(m, delay)
	}
	d.logger.Info("fleet refresh dispatched", zap.Int("accounts", len(members)))
	return len(members)
}

func (d *Dispatcher) kickoff(m *Managed, delay time.Duration) {
	if delay > 0 {
		d.clock.Sleep(delay)
	}
	if !m.Session.Active() {
		d.logger.Debug("skipping refresh, session inactive",
			zap.String("account_id", m.Account.ID))
		return
	}
	m.Worker.Post(NewEvent(EventRefresh))
}
