package persistence

import "time"

// ActivityLogModel is the database row for one recorded fleet event
type ActivityLogModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	AccountID string    `gorm:"index;size:64;not null"`
	Kind      string    `gorm:"size:32;not null"`
	Detail    string    `gorm:"size:512"`
	CreatedAt time.Time `gorm:"index;not null"`
}

// TableName overrides the table name
func (ActivityLogModel) TableName() string {
	return "activity_log"
}

// BadgeSnapshotModel is the database row for one title observed during a
// scrape. Rows for one (account, taken_at) pair form a full inventory
// snapshot.
type BadgeSnapshotModel struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	AccountID      string    `gorm:"index:idx_snapshot_account_taken;size:64;not null"`
	TakenAt        time.Time `gorm:"index:idx_snapshot_account_taken;not null"`
	TitleID        int       `gorm:"not null"`
	TitleName      string    `gorm:"size:256"`
	DropsRemaining int       `gorm:"not null"`
	HoursPlayed    float64
}

// TableName overrides the table name
func (BadgeSnapshotModel) TableName() string {
	return "badge_snapshots"
}
