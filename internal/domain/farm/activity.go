package farm

import "time"

// ActivityKind categorizes a recorded fleet event
type ActivityKind string

const (
	ActivityScrapeOK      ActivityKind = "SCRAPE_OK"
	ActivityScrapeFailed  ActivityKind = "SCRAPE_FAILED"
	ActivityIdleSwitch    ActivityKind = "IDLE_SWITCH"
	ActivityIdleStop      ActivityKind = "IDLE_STOP"
	ActivityRedeem        ActivityKind = "REDEEM"
	ActivityConfirmations ActivityKind = "CONFIRMATIONS"
)

// ActivityEntry is one recorded event in an account's history
type ActivityEntry struct {
	ID        string
	AccountID string
	Kind      ActivityKind
	Detail    string
	CreatedAt time.Time
}
