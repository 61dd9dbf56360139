package repository

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, entry *domain.ActivityLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns the newest entries first, optionally narrowed to one entity type
func (r *ActivityRepository) List(ctx context.Context, entityType string, limit int) ([]domain.ActivityLogEntry, error) {
	var entries []domain.ActivityLogEntry
	query := r.db.WithContext(ctx).Model(&domain.ActivityLogEntry{})
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// ListByEntity returns the history of one entity, oldest first
func (r *ActivityRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]domain.ActivityLogEntry, error) {
	var entries []domain.ActivityLogEntry
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at").
		Order("id").
		Find(&entries).Error
	return entries, err
}
