package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
)

// GormBadgeSnapshotRepository persists inventory snapshots taken after
// successful scrapes. Implements the application layer's SnapshotStore port.
type GormBadgeSnapshotRepository struct {
	db *gorm.DB
}

// NewGormBadgeSnapshotRepository creates the repository
func NewGormBadgeSnapshotRepository(db *gorm.DB) *GormBadgeSnapshotRepository {
	return &GormBadgeSnapshotRepository{db: db}
}

// Save writes one full inventory snapshot in a single transaction
func (r *GormBadgeSnapshotRepository) Save(ctx context.Context, accountID string, at time.Time, titles []*farm.Title) error {
	if len(titles) == 0 {
		return nil
	}

	models := make([]BadgeSnapshotModel, 0, len(titles))
	for _, t := range titles {
		models = append(models, BadgeSnapshotModel{
			AccountID:      accountID,
			TakenAt:        at,
			TitleID:        t.ID,
			TitleName:      t.Name,
			DropsRemaining: t.DropsRemaining,
			HoursPlayed:    t.HoursPlayed,
		})
	}

	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("failed to save badge snapshot: %w", err)
	}
	return nil
}

// Latest returns the titles of the most recent snapshot for an account
func (r *GormBadgeSnapshotRepository) Latest(ctx context.Context, accountID string) ([]*farm.Title, time.Time, error) {
	var latest struct {
		TakenAt time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&BadgeSnapshotModel{}).
		Select("taken_at").
		Where("account_id = ?", accountID).
		Order("taken_at DESC").
		Limit(1).
		Scan(&latest).Error
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	if latest.TakenAt.IsZero() {
		return nil, time.Time{}, nil
	}

	var models []BadgeSnapshotModel
	err = r.db.WithContext(ctx).
		Where("account_id = ? AND taken_at = ?", accountID, latest.TakenAt).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	titles := make([]*farm.Title, 0, len(models))
	for _, m := range models {
		titles = append(titles, &farm.Title{
			ID:             m.TitleID,
			Name:           m.TitleName,
			DropsRemaining: m.DropsRemaining,
			HoursPlayed:    m.HoursPlayed,
		})
	}
	return titles, latest.TakenAt, nil
}
