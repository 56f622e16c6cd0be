package farm

// Confirmation is one pending trade confirmation: an opaque identifier plus
// the nonce needed to respond to it. Transient: fetched and resolved
// within a single engine pass, never cached across passes.
type Confirmation struct {
	ID  string
	Key string
}

// ConfirmationOutcome reports how a resolution pass went. Individual
// failures never abort the pass; they are counted instead.
type ConfirmationOutcome struct {
	Resolved int
	Failed   int
}
