package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
)

// GormActivityLogRepository persists per-account history.
// Implements the application layer's ActivityLog port.
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates the repository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Record writes one activity entry
func (r *GormActivityLogRepository) Record(ctx context.Context, entry *farm.ActivityEntry) error {
	model := &ActivityLogModel{
		ID:        entry.ID,
		AccountID: entry.AccountID,
		Kind:      string(entry.Kind),
		Detail:    entry.Detail,
		CreatedAt: entry.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// History returns the most recent entries for an account, newest first
func (r *GormActivityLogRepository) History(ctx context.Context, accountID string, limit int) ([]*farm.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var models []ActivityLogModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load activity history: %w", err)
	}

	entries := make([]*farm.ActivityEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, &farm.ActivityEntry{
			ID:        m.ID,
			AccountID: m.AccountID,
			Kind:      farm.ActivityKind(m.Kind),
			Detail:    m.Detail,
			CreatedAt: m.CreatedAt,
		})
	}
	return entries, nil
}
