package repository

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

// DashboardRepository runs the read-time aggregation queries behind the dashboard.
// Queries stick to SQL that both PostgreSQL and SQLite accept.
type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// LocationProjectStats aggregates the projects of one location
type LocationProjectStats struct {
	LocationID    int64
	LocationName  string
	TotalProjects int
	Top5Count     int `gorm:"column:top_5_count"`
	OnTrack       int
	AtRisk        int
	Behind        int
	Complete      int
	BudgetPlanned float64
	BudgetActual  float64
	CompletionSum int
}

// LocationStaffingStats aggregates the active assignments of one location
type LocationStaffingStats struct {
	LocationID      int64
	LocationName    string
	Headcount       int
	TotalAllocation int
}

// BudgetTotals is the portfolio-wide budget sum
type BudgetTotals struct {
	Planned float64
	Actual  float64
}

func (r *DashboardRepository) CountLocations(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.Location{})
}

func (r *DashboardRepository) CountPeople(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.Person{})
}

func (r *DashboardRepository) CountProjects(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.Project{})
}

func (r *DashboardRepository) CountReports(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.Report{})
}

func (r *DashboardRepository) CountProjectsByStatus(ctx context.Context, status domain.ProjectStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *DashboardRepository) count(ctx context.Context, model interface{}) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Count(&count).Error
	return count, err
}

func (r *DashboardRepository) BudgetTotals(ctx context.Context) (*BudgetTotals, error) {
	var totals BudgetTotals
	err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Select("COALESCE(SUM(budget_planned), 0) AS planned, COALESCE(SUM(budget_actual), 0) AS actual").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// ProjectStatsByLocation returns one row per location, including locations
// without projects, ordered by location name
func (r *DashboardRepository) ProjectStatsByLocation(ctx context.Context) ([]LocationProjectStats, error) {
	var rows []LocationProjectStats
	err := r.db.WithContext(ctx).
		Table("locations AS l").
		Select(`l.id AS location_id, l.name AS location_name,
			COUNT(p.id) AS total_projects,
			COALESCE(SUM(CASE WHEN p.is_top_5 THEN 1 ELSE 0 END), 0) AS top_5_count,
			COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS on_track,
			COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS at_risk,
			COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS behind,
			COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS complete,
			COALESCE(SUM(p.budget_planned), 0) AS budget_planned,
			COALESCE(SUM(p.budget_actual), 0) AS budget_actual,
			COALESCE(SUM(p.percent_complete), 0) AS completion_sum`,
			domain.ProjectStatusOnTrack,
			domain.ProjectStatusAtRisk,
			domain.ProjectStatusBehind,
			domain.ProjectStatusComplete,
		).
		Joins("LEFT JOIN projects p ON p.location_id = l.id").
		Group("l.id, l.name").
		Order("l.name").
		Order("l.id").
		Scan(&rows).Error
	return rows, err
}

// StaffingByLocation returns distinct active headcount and allocation per location,
// including locations without staff, ordered by location name
func (r *DashboardRepository) StaffingByLocation(ctx context.Context) ([]LocationStaffingStats, error) {
	var rows []LocationStaffingStats
	err := r.db.WithContext(ctx).
		Table("locations AS l").
		Select(`l.id AS location_id, l.name AS location_name,
			COUNT(DISTINCT a.person_id) AS headcount,
			COALESCE(SUM(a.allocation_pct), 0) AS total_allocation`).
		Joins("LEFT JOIN assignments a ON a.location_id = l.id AND a.status = ?", domain.AssignmentStatusActive).
		Group("l.id, l.name").
		Order("l.name").
		Order("l.id").
		Scan(&rows).Error
	return rows, err
}

// StatusDistribution counts projects per status, ordered by status
func (r *DashboardRepository) StatusDistribution(ctx context.Context) ([]domain.StatusCountDTO, error) {
	var rows []domain.StatusCountDTO
	err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

// PhaseDistribution counts projects per phase, unordered
func (r *DashboardRepository) PhaseDistribution(ctx context.Context) ([]domain.PhaseCountDTO, error) {
	var rows []domain.PhaseCountDTO
	err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Select("phase, COUNT(*) AS count").
		Group("phase").
		Scan(&rows).Error
	return rows, err
}
