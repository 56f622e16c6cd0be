package farm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
)

// EventKind classifies a worker mailbox event
type EventKind int

const (
	// EventSessionUp signals the session collaborator finished a login
	EventSessionUp EventKind = iota
	// EventSessionDown signals the session was lost
	EventSessionDown
	// EventNewItems signals the network announced new inventory items
	EventNewItems
	// EventRefresh requests a badge scrape and idle reconciliation
	EventRefresh
	// EventIdle requests idling an explicit title (farm-wide idle command)
	EventIdle
	// EventStop requests clearing the idle target
	EventStop
	// EventStatus requests a snapshot of the account's summary
	EventStatus
)

// Event is one unit of work posted to a worker's mailbox
type Event struct {
	ID      string
	Kind    EventKind
	TitleID int

	// Reply, when non-nil, receives the handling outcome exactly once
	Reply chan error
	// StatusReply receives the summary for EventStatus
	StatusReply chan farm.Status
}

// NewEvent creates an event with a fresh correlation id
func NewEvent(kind EventKind) Event {
	return Event{ID: uuid.NewString(), Kind: kind}
}

const mailboxSize = 16

// Worker owns one account's runtime state. All mutation of the account
// (inventory replacement, idle-target changes, session flags) happens on
// the worker goroutine, which consumes mailbox events in arrival order.
// Serial consumption is the per-account single-flight guard: two scrapes
// for the same account can never interleave.
type Worker struct {
	account   *farm.Account
	session   ports.Session
	scraper   Scraper
	scheduler *farm.Scheduler
	activity  ActivityLog   // optional
	snapshots SnapshotStore // optional
	clock     shared.Clock
	logger    *zap.Logger

	refreshInterval time.Duration
	mailbox         chan Event
	done            chan struct{}
}

// NewWorker creates a worker for the given account. activity and snapshots
// may be nil when history persistence is disabled.
func NewWorker(
	account *farm.Account,
	session ports.Session,
	scraper Scraper,
	activity ActivityLog,
	snapshots SnapshotStore,
	clock shared.Clock,
	logger *zap.Logger,
	refreshInterval time.Duration,
) *Worker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		account:         account,
		session:         session,
		scraper:         scraper,
		scheduler:       farm.NewScheduler(),
		activity:        activity,
		snapshots:       snapshots,
		clock:           clock,
		logger:          logger.Named(account.Name),
		refreshInterval: refreshInterval,
		mailbox:         make(chan Event, mailboxSize),
		done:            make(chan struct{}),
	}
}

// Post delivers an event to the worker's mailbox. Returns false when the
// mailbox is full; the trigger is dropped rather than blocking the sender.
func (w *Worker) Post(ev Event) bool {
	select {
	case w.mailbox <- ev:
		return true
	default:
		w.logger.Warn("mailbox full, dropping event", zap.Int("kind", int(ev.Kind)))
		return false
	}
}

// Send posts an event carrying a reply channel and waits for the outcome
func (w *Worker) Send(ctx context.Context, ev Event) error {
	ev.Reply = make(chan error, 1)
	select {
	case w.mailbox <- ev:
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
		return fmt.Errorf("worker for account %s has stopped", w.account.ID)
	}

	select {
	case err := <-ev.Reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
		return fmt.Errorf("worker for account %s has stopped", w.account.ID)
	}
}

// Status fetches the account summary through the mailbox
func (w *Worker) Status(ctx context.Context) (farm.Status, error) {
	ev := NewEvent(EventStatus)
	ev.StatusReply = make(chan farm.Status, 1)
	select {
	case w.mailbox <- ev:
	case <-ctx.Done():
		return farm.Status{}, ctx.Err()
	case <-w.done:
		return farm.Status{}, fmt.Errorf("worker for account %s has stopped", w.account.ID)
	}

	select {
	case status := <-ev.StatusReply:
		return status, nil
	case <-ctx.Done():
		return farm.Status{}, ctx.Err()
	case <-w.done:
		return farm.Status{}, fmt.Errorf("worker for account %s has stopped", w.account.ID)
	}
}

// Done is closed when the worker's event loop has exited
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Run consumes the mailbox until ctx is cancelled. When a refresh interval
// is configured, a ticker posts periodic refresh events into the same
// mailbox so timed scrapes serialize with everything else.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	ctx = common.WithLogger(ctx, w.logger)

	var tick <-chan time.Time
	if w.refreshInterval > 0 {
		ticker := time.NewTicker(w.refreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			// Fire-time activity check: a timer scheduled while the session
			// was alive must no-op if it has since gone away.
			if w.session.Active() {
				w.handle(ctx, NewEvent(EventRefresh))
			}
		case ev := <-w.mailbox:
			w.handle(ctx, ev)
		}
	}
}

func (w *Worker) handle(ctx context.Context, ev Event) {
	var err error

	switch ev.Kind {
	case EventSessionUp:
		err = w.sessionUp(ctx)
	case EventSessionDown:
		w.account.SessionActive = false
		w.logger.Info("session lost")
	case EventNewItems:
		if w.account.CheckOnNewItems {
			w.logger.Debug("checking badges (new items)")
			err = w.refresh(ctx)
		}
	case EventRefresh:
		err = w.refresh(ctx)
	case EventIdle:
		err = w.apply(ctx, w.scheduler.Target(w.account, ev.TitleID))
	case EventStop:
		if w.account.Idling() {
			err = w.apply(ctx, farm.Action{Kind: farm.ActionStopIdling})
		}
	case EventStatus:
		if ev.StatusReply != nil {
			ev.StatusReply <- w.account.Snapshot()
		}
	}

	if err != nil {
		w.logger.Warn("event handling failed", zap.Error(err))
	}
	if ev.Reply != nil {
		ev.Reply <- err
	}
}

// sessionUp resets idle state for the fresh session, applies the configured
// persona visibility, and kicks off the initial scrape.
func (w *Worker) sessionUp(ctx context.Context) error {
	w.account.SessionActive = true
	w.account.CurrentTarget = farm.NoTitle
	w.logger.Info("session established")

	if err := w.session.SetVisibility(ctx, w.account.VisibleOnline); err != nil {
		w.logger.Warn("failed to set persona visibility", zap.Error(err))
	}

	return w.refresh(ctx)
}

// refresh scrapes the badge listing, atomically replaces the inventory and
// reconciles the idle target. Inventory replacement and reconciliation form
// one logical step on the worker goroutine; no command can observe a
// half-replaced inventory.
func (w *Worker) refresh(ctx context.Context) error {
	w.account.SessionActive = w.session.Active()
	if !w.account.SessionActive {
		return shared.NewNotLoggedInError(w.account.ID)
	}

	inv, err := w.scraper.Scrape(ctx, w.account)
	if err != nil {
		w.record(ctx, farm.ActivityScrapeFailed, err.Error())
		return err
	}

	w.account.ReplaceInventory(inv)
	w.record(ctx, farm.ActivityScrapeOK,
		fmt.Sprintf("%d titles, %d drops remaining", inv.Len(), inv.TotalDrops()))

	if w.snapshots != nil {
		if err := w.snapshots.Save(ctx, w.account.ID, w.clock.Now(), inv.Titles()); err != nil {
			w.logger.Warn("failed to persist inventory snapshot", zap.Error(err))
		}
	}

	return w.apply(ctx, w.scheduler.Reconcile(w.account, inv))
}

// apply executes a scheduler decision, issuing at most one session mutation
func (w *Worker) apply(ctx context.Context, action farm.Action) error {
	switch action.Kind {
	case farm.ActionSwitchTo:
		if err := w.session.SetIdleGame(ctx, action.TitleID); err != nil {
			return fmt.Errorf("failed to start idling %d: %w", action.TitleID, err)
		}
		w.account.CurrentTarget = action.TitleID
		w.record(ctx, farm.ActivityIdleSwitch, fmt.Sprintf("title %d", action.TitleID))
		w.logger.Info("started idling", zap.Int("title_id", action.TitleID))
		if t := w.account.Inventory.Get(action.TitleID); t != nil && w.account.Debug {
			w.logger.Debug("idle target detail",
				zap.String("name", t.Name),
				zap.Int("drops_remaining", t.DropsRemaining),
				zap.Float64("hours_played", t.HoursPlayed))
		}

	case farm.ActionStopIdling:
		if err := w.session.SetIdleGame(ctx, farm.NoTitle); err != nil {
			return fmt.Errorf("failed to stop idling: %w", err)
		}
		w.account.CurrentTarget = farm.NoTitle
		w.record(ctx, farm.ActivityIdleStop, "")
		w.logger.Info("stopped idling")

	case farm.ActionKeepIdling:
		w.logger.Debug("idle target unchanged", zap.Int("title_id", w.account.CurrentTarget))
	}

	return nil
}

func (w *Worker) record(ctx context.Context, kind farm.ActivityKind, detail string) {
	if w.activity == nil {
		return
	}
	entry := &farm.ActivityEntry{
		ID:        uuid.NewString(),
		AccountID: w.account.ID,
		Kind:      kind,
		Detail:    detail,
		CreatedAt: w.clock.Now(),
	}
	if err := w.activity.Record(ctx, entry); err != nil {
		w.logger.Warn("failed to record activity", zap.Error(err))
	}
}
