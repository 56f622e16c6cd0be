package farm

// ActionKind classifies the scheduler's decision for an account
type ActionKind int

const (
	// ActionNoOp means nothing to do: idling disabled, nothing was idling,
	// or the requested target was invalid
	ActionNoOp ActionKind = iota
	// ActionKeepIdling means the current target is still valid; no session
	// mutation is issued
	ActionKeepIdling
	// ActionSwitchTo means start or change idling to Action.TitleID
	ActionSwitchTo
	// ActionStopIdling means clear the idle target; no drops remain
	ActionStopIdling
)

func (k ActionKind) String() string {
	switch k {
	case ActionKeepIdling:
		return "KEEP_IDLING"
	case ActionSwitchTo:
		return "SWITCH_TO"
	case ActionStopIdling:
		return "STOP_IDLING"
	default:
		return "NO_OP"
	}
}

// Action is the scheduler's decision. TitleID is set only for SwitchTo.
type Action struct {
	Kind    ActionKind
	TitleID int
}

// Scheduler decides what an account should idle next. It is stateless:
// every decision is a pure function of the account record and the freshly
// scraped inventory.
type Scheduler struct{}

// NewScheduler creates a scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Reconcile decides the next idle action after a scrape, evaluating rules
// in order:
//
//  1. idling disabled for the account: NoOp
//  2. empty inventory: StopIdling if a target was set, else NoOp
//  3. target unset or no longer in the inventory: SwitchTo the
//     first-inserted title (listing order, deliberately no prioritization)
//  4. otherwise: KeepIdling
//
// Reconcile never mutates the account; the caller applies the action.
func (s *Scheduler) Reconcile(account *Account, inv *Inventory) Action {
	if !account.IdleEnabled {
		return Action{Kind: ActionNoOp}
	}

	if inv == nil || inv.Len() == 0 {
		if account.Idling() {
			return Action{Kind: ActionStopIdling}
		}
		return Action{Kind: ActionNoOp}
	}

	if !account.Idling() || !inv.Has(account.CurrentTarget) {
		first := inv.FirstID()
		if first == NoTitle {
			return Action{Kind: ActionNoOp}
		}
		return Action{Kind: ActionSwitchTo, TitleID: first}
	}

	return Action{Kind: ActionKeepIdling}
}

// Target builds the action for an explicit idle command, bypassing the
// first-key rule. The title must be a real key of the inventory and never
// the NoTitle sentinel.
func (s *Scheduler) Target(account *Account, titleID int) Action {
	if !account.IdleEnabled || titleID == NoTitle {
		return Action{Kind: ActionNoOp}
	}
	if !account.Inventory.Has(titleID) {
		return Action{Kind: ActionNoOp}
	}
	if account.CurrentTarget == titleID {
		return Action{Kind: ActionKeepIdling}
	}
	return Action{Kind: ActionSwitchTo, TitleID: titleID}
}
