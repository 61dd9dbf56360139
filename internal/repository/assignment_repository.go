package repository

import (
	"context"
	"time"

	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// AssignmentRow is an assignment joined with person and location columns.
// Which joined columns are filled depends on the listing.
type AssignmentRow struct {
	ID                  int64
	PersonID            int64
	LocationID          int64
	RoleAtLocation      string
	StartDate           *domain.Date
	EndDate             *domain.Date
	Status              domain.AssignmentStatus
	AllocationPct       int
	CreatedAt           time.Time
	PersonName          string
	PersonRole          string
	PersonEmail         string
	PersonPhone         string
	Organization        string
	Skills              string
	LocationName        string
	LocationDescription string
}

const assignmentColumns = `a.id, a.person_id, a.location_id, a.role_at_location, a.start_date, a.end_date,
	a.status, a.allocation_pct, a.created_at`

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, assignment *domain.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.db.WithContext(ctx), &domain.Assignment{}, id)
}

// ListWithNames returns every assignment with person and location names,
// ordered by location name then person name
func (r *AssignmentRepository) ListWithNames(ctx context.Context) ([]AssignmentRow, error) {
	var rows []AssignmentRow
	err := r.db.WithContext(ctx).
		Table("assignments AS a").
		Select(assignmentColumns + `, p.name AS person_name, p.role AS person_role, p.email AS person_email,
			p.organization, l.name AS location_name`).
		Joins("JOIN people p ON a.person_id = p.id").
		Joins("JOIN locations l ON a.location_id = l.id").
		Order("l.name").
		Order("p.name").
		Order("a.id").
		Scan(&rows).Error
	return rows, err
}

// ListByLocation returns a location's assignments with person details, ordered by person name
func (r *AssignmentRepository) ListByLocation(ctx context.Context, locationID int64) ([]AssignmentRow, error) {
	var rows []AssignmentRow
	err := r.db.WithContext(ctx).
		Table("assignments AS a").
		Select(assignmentColumns+`, p.name AS person_name, p.role AS person_role, p.email AS person_email,
			p.phone AS person_phone, p.organization, p.skills`).
		Joins("JOIN people p ON a.person_id = p.id").
		Where("a.location_id = ?", locationID).
		Order("p.name").
		Order("a.id").
		Scan(&rows).Error
	return rows, err
}

// ListByPerson returns a person's assignments with location details, newest start date first
func (r *AssignmentRepository) ListByPerson(ctx context.Context, personID int64) ([]AssignmentRow, error) {
	var rows []AssignmentRow
	err := r.db.WithContext(ctx).
		Table("assignments AS a").
		Select(assignmentColumns+`, l.name AS location_name, l.description AS location_description`).
		Joins("JOIN locations l ON a.location_id = l.id").
		Where("a.person_id = ?", personID).
		Order("a.start_date DESC").
		Order("a.id DESC").
		Scan(&rows).Error
	return rows, err
}

// ListActiveWithNames returns active assignments with person and location columns,
// ordered by person name then allocation descending
func (r *AssignmentRepository) ListActiveWithNames(ctx context.Context) ([]AssignmentRow, error) {
	var rows []AssignmentRow
	err := r.db.WithContext(ctx).
		Table("assignments AS a").
		Select(assignmentColumns+`, p.name AS person_name, p.role AS person_role, p.email AS person_email,
			p.organization, l.name AS location_name`).
		Joins("JOIN people p ON a.person_id = p.id").
		Joins("JOIN locations l ON a.location_id = l.id").
		Where("a.status = ?", domain.AssignmentStatusActive).
		Order("p.name").
		Order("a.allocation_pct DESC").
		Order("a.id").
		Scan(&rows).Error
	return rows, err
}

// ListAllWithLocation returns every assignment, of any status, with its location name
func (r *AssignmentRepository) ListAllWithLocation(ctx context.Context) ([]AssignmentRow, error) {
	var rows []AssignmentRow
	err := r.db.WithContext(ctx).
		Table("assignments AS a").
		Select(assignmentColumns + `, l.name AS location_name`).
		Joins("JOIN locations l ON a.location_id = l.id").
		Order("a.person_id").
		Order("l.name").
		Scan(&rows).Error
	return rows, err
}

// ActiveAllocationByPerson sums active allocation per person
func (r *AssignmentRepository) ActiveAllocationByPerson(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		PersonID int64
		Total    int
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Select("person_id, COALESCE(SUM(allocation_pct), 0) AS total").
		Where("status = ?", domain.AssignmentStatusActive).
		Group("person_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]int, len(rows))
	for _, row := range rows {
		totals[row.PersonID] = row.Total
	}
	return totals, nil
}

// CountOvercommitted counts people whose active allocation exceeds threshold
func (r *AssignmentRepository) CountOvercommitted(ctx context.Context, threshold int) (int64, error) {
	var count int64
	sub := r.db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Select("person_id").
		Where("status = ?", domain.AssignmentStatusActive).
		Group("person_id").
		Having("SUM(allocation_pct) > ?", threshold)
	err := r.db.WithContext(ctx).Table("(?) AS overcommitted", sub).Count(&count).Error
	return count, err
}
