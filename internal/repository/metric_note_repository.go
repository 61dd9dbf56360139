package repository

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type MetricNoteRepository struct {
	db *gorm.DB
}

func NewMetricNoteRepository(db *gorm.DB) *MetricNoteRepository {
	return &MetricNoteRepository{db: db}
}

func (r *MetricNoteRepository) Create(ctx context.Context, note *domain.MetricNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}
