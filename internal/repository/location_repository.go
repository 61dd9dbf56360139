package repository

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, location *domain.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	var location domain.Location
	err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) Update(ctx context.Context, location *domain.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// Delete removes the location. Contacts, projects, assignments, reports and
// metric notes go with it through the foreign key cascades.
func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.db.WithContext(ctx), &domain.Location{}, id)
}

func (r *LocationRepository) List(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.WithContext(ctx).Order("id").Find(&locations).Error
	return locations, err
}

func (r *LocationRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Location{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// deleteByID hard-deletes one row and reports gorm.ErrRecordNotFound when nothing matched
func deleteByID(db *gorm.DB, model interface{}, id int64) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
