package farm

// NoTitle is the numeric sentinel for "no game". It is never a valid idle
// target and never a valid inventory key.
const NoTitle = 0

// Title is one drop-eligible entry discovered on an account's badge listing.
// Titles with zero remaining drops are never materialized.
type Title struct {
	ID             int
	Name           string
	DropsRemaining int
	HoursPlayed    float64
}

// Inventory is an ordered mapping of title id to Title. Insertion order is
// first-seen order across listing pages and is the order the scheduler's
// "first key" rule observes.
type Inventory struct {
	order  []int
	titles map[int]*Title
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{titles: make(map[int]*Title)}
}

// Add inserts a title, preserving first-seen order. Re-adding an id keeps
// its original position but refreshes the record.
func (inv *Inventory) Add(t *Title) {
	if t == nil || t.ID == NoTitle {
		return
	}
	if _, seen := inv.titles[t.ID]; !seen {
		inv.order = append(inv.order, t.ID)
	}
	inv.titles[t.ID] = t
}

// Get returns the title for id, or nil if absent
func (inv *Inventory) Get(id int) *Title {
	return inv.titles[id]
}

// Has reports whether id is a key of the inventory
func (inv *Inventory) Has(id int) bool {
	_, ok := inv.titles[id]
	return ok
}

// Len returns the number of titles
func (inv *Inventory) Len() int {
	return len(inv.order)
}

// FirstID returns the first-inserted title id, or NoTitle when empty
func (inv *Inventory) FirstID() int {
	if len(inv.order) == 0 {
		return NoTitle
	}
	return inv.order[0]
}

// IDs returns the title ids in insertion order
func (inv *Inventory) IDs() []int {
	ids := make([]int, len(inv.order))
	copy(ids, inv.order)
	return ids
}

// Titles returns the titles in insertion order
func (inv *Inventory) Titles() []*Title {
	titles := make([]*Title, 0, len(inv.order))
	for _, id := range inv.order {
		titles = append(titles, inv.titles[id])
	}
	return titles
}

// TotalDrops sums the remaining drops across all titles
func (inv *Inventory) TotalDrops() int {
	total := 0
	for _, t := range inv.titles {
		total += t.DropsRemaining
	}
	return total
}
