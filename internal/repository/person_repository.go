package repository

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type PersonRepository struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) Create(ctx context.Context, person *domain.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *PersonRepository) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	var person domain.Person
	err := r.db.WithContext(ctx).First(&person, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *PersonRepository) Update(ctx context.Context, person *domain.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.db.WithContext(ctx), &domain.Person{}, id)
}

func (r *PersonRepository) List(ctx context.Context) ([]domain.Person, error) {
	var people []domain.Person
	err := r.db.WithContext(ctx).Order("name").Order("id").Find(&people).Error
	return people, err
}

func (r *PersonRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Person{}).Count(&count).Error
	return count, err
}
