package farm

// Credentials holds an account's login material. Owned exclusively by the
// account record; never shared between accounts.
type Credentials struct {
	Username       string
	Password       string
	SharedSecret   string
	IdentitySecret string
}

// Account is one managed account. Created once at startup from static
// configuration; runtime state is mutated only by the account's own worker.
type Account struct {
	ID   string
	Name string

	Credentials Credentials

	// Behavior flags from configuration
	IdleEnabled     bool
	ConfirmTrades   bool
	CheckOnNewItems bool
	VisibleOnline   bool
	Debug           bool

	// Runtime state
	SessionActive bool
	CurrentTarget int // NoTitle when not idling
	Inventory     *Inventory
}

// NewAccount creates an account record with an empty inventory
func NewAccount(id, name string, creds Credentials) *Account {
	if name == "" {
		name = id
	}
	return &Account{
		ID:          id,
		Name:        name,
		Credentials: creds,
		Inventory:   NewInventory(),
	}
}

// Idling reports whether the account currently has an idle target
func (a *Account) Idling() bool {
	return a.CurrentTarget != NoTitle
}

// CanConfirm reports whether confirmation resolution is possible: the flag
// must be on and an identity secret present.
func (a *Account) CanConfirm() bool {
	return a.ConfirmTrades && a.Credentials.IdentitySecret != ""
}

// ReplaceInventory atomically swaps the account's inventory for the result
// of a successful full scrape. Never merges partial pages.
func (a *Account) ReplaceInventory(inv *Inventory) {
	if inv == nil {
		inv = NewInventory()
	}
	a.Inventory = inv
}

// Status is the per-account summary reported through the command boundary
type Status struct {
	ID             string
	Name           string
	SessionActive  bool
	DropsRemaining int
	TitleCount     int
	CurrentTarget  int
}

// Snapshot produces the account's status summary
func (a *Account) Snapshot() Status {
	return Status{
		ID:             a.ID,
		Name:           a.Name,
		SessionActive:  a.SessionActive,
		DropsRemaining: a.Inventory.TotalDrops(),
		TitleCount:     a.Inventory.Len(),
		CurrentTarget:  a.CurrentTarget,
	}
}
