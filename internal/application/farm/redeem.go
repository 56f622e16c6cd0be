package farm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
)

// RedeemReport is the outcome of a fleet-wide key redemption
type RedeemReport struct {
	// AccountID is the account the final attempt ran on
	AccountID string
	Result    ports.RedeemResult
	// Exhausted is true when every account rejected the key with a
	// cascade-eligible result (already owned, cooldown)
	Exhausted bool
}

// Redeemer walks the fleet trying to activate a product key. Results that
// only rule out one account (already owned, base game required, cooldown)
// cascade to the next account; key-level failures stop the walk.
type Redeemer struct {
	fleet  *Fleet
	resync *shared.BackoffPolicy
	clock  shared.Clock
	logger *zap.Logger
}

// NewRedeemer creates a redeemer over the fleet
func NewRedeemer(fleet *Fleet, resync *shared.BackoffPolicy, clock shared.Clock, logger *zap.Logger) *Redeemer {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redeemer{fleet: fleet, resync: resync, clock: clock, logger: logger}
}

// Redeem tries the key on each account in roster order until it lands
func (r *Redeemer) Redeem(ctx context.Context, key string) (*RedeemReport, error) {
	members := r.fleet.Members()
	if len(members) == 0 {
		return nil, fmt.Errorf("no accounts in fleet")
	}

	for _, m := range members {
		result, err := m.Session.RedeemKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("redeeming key on account %s: %w", m.Account.ID, err)
		}

		switch {
		case result == ports.RedeemOK:
			r.logger.Info("key redeemed",
				zap.String("account_id", m.Account.ID))
			r.scheduleResync(m)
			return &RedeemReport{AccountID: m.Account.ID, Result: result}, nil

		case result.Retryable():
			r.logger.Debug("key not usable on account, trying next",
				zap.String("account_id", m.Account.ID),
				zap.String("result", result.String()))
			continue

		default:
			// Key-level failure (invalid, duplicated, region locked):
			// no other account will fare better
			return &RedeemReport{AccountID: m.Account.ID, Result: result}, nil
		}
	}

	last := members[len(members)-1]
	return &RedeemReport{
		AccountID: last.Account.ID,
		Result:    ports.RedeemAlreadyOwned,
		Exhausted: true,
	}, nil
}

// scheduleResync queues a badge refresh shortly after a redemption so the
// new titles show up. Fire-and-forget; activity is re-checked at fire time.
func (r *Redeemer) scheduleResync(m *Managed) {
	delay := r.resync.NextDelay(0)
	go func() {
		if delay > 0 {
			r.clock.Sleep(delay)
		}
		if !m.Session.Active() {
			return
		}
		m.Worker.Post(NewEvent(EventRefresh))
	}()
}
