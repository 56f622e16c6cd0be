package farm

import (
	"context"
	"time"

	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// Scraper produces a full ordered inventory for an account. The community
// adapter implements it; tests substitute fakes.
type Scraper interface {
	Scrape(ctx context.Context, account *farm.Account) (*farm.Inventory, error)
}

// Confirmer resolves an account's pending trade confirmations
type Confirmer interface {
	ResolvePending(ctx context.Context, account *farm.Account, session ports.Session) (farm.ConfirmationOutcome, error)
}

// ActivityLog records and replays per-account history
type ActivityLog interface {
	Record(ctx context.Context, entry *farm.ActivityEntry) error
	History(ctx context.Context, accountID string, limit int) ([]*farm.ActivityEntry, error)
}

// SnapshotStore persists inventory snapshots taken after successful scrapes
type SnapshotStore interface {
	Save(ctx context.Context, accountID string, at time.Time, titles []*farm.Title) error
}
