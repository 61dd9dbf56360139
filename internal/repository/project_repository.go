package repository

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.db.WithContext(ctx), &domain.Project{}, id)
}

// ListByLocation returns a location's projects, top 5 first, then by name
func (r *ProjectRepository) ListByLocation(ctx context.Context, locationID int64) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("is_top_5 DESC").
		Order("name").
		Find(&projects).Error
	return projects, err
}

// ListAllGrouped returns every project ordered by location, top 5 first, then by name
func (r *ProjectRepository) ListAllGrouped(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).
		Order("location_id").
		Order("is_top_5 DESC").
		Order("name").
		Find(&projects).Error
	return projects, err
}

// ProjectExportRow is a project joined with its location name
type ProjectExportRow struct {
	LocationName    string
	Name            string
	Description     string
	Status          domain.ProjectStatus
	Phase           domain.ProjectPhase
	StartDate       *domain.Date
	EndDate         *domain.Date
	PercentComplete int
	BudgetPlanned   float64
	BudgetActual    float64
	IsTop5          bool `gorm:"column:is_top_5"`
}

// ListForExport returns every project with its location name, ordered by location name then project name
func (r *ProjectRepository) ListForExport(ctx context.Context) ([]ProjectExportRow, error) {
	var rows []ProjectExportRow
	err := r.db.WithContext(ctx).
		Table("projects AS p").
		Select(`l.name AS location_name, p.name, p.description, p.status, p.phase,
			p.start_date, p.end_date, p.percent_complete, p.budget_planned, p.budget_actual, p.is_top_5`).
		Joins("JOIN locations l ON p.location_id = l.id").
		Order("l.name").
		Order("p.name").
		Scan(&rows).Error
	return rows, err
}
