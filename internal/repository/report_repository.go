package repository

import (
	"context"
	"strings"
	"time"

	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ReportRow is a report joined with its location name and author name
type ReportRow struct {
	ID           int64
	LocationID   int64
	AuthorID     *int64
	Title        string
	Body         string
	ReportType   domain.ReportType
	ReportDate   *domain.Date
	CreatedAt    time.Time
	LocationName string
	AuthorName   *string
}

// predicate is one WHERE fragment with its own placeholders. Predicates are ANDed.
type predicate struct {
	clause string
	args   []interface{}
}

func reportPredicates(filters domain.ReportFilters) []predicate {
	var preds []predicate
	if s := strings.TrimSpace(filters.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		preds = append(preds, predicate{
			clause: "(LOWER(r.title) LIKE ? OR LOWER(r.body) LIKE ?)",
			args:   []interface{}{pattern, pattern},
		})
	}
	if filters.ReportType != "" {
		preds = append(preds, predicate{clause: "r.report_type = ?", args: []interface{}{filters.ReportType}})
	}
	if filters.LocationID != nil {
		preds = append(preds, predicate{clause: "r.location_id = ?", args: []interface{}{*filters.LocationID}})
	}
	return preds
}

func (r *ReportRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reports AS r").
		Select(`r.id, r.location_id, r.author_id, r.title, r.body, r.report_type, r.report_date, r.created_at,
			l.name AS location_name, p.name AS author_name`).
		Joins("LEFT JOIN locations l ON r.location_id = l.id").
		Joins("LEFT JOIN people p ON r.author_id = p.id")
}

// List returns reports matching every given filter, newest report date first
func (r *ReportRepository) List(ctx context.Context, filters domain.ReportFilters) ([]ReportRow, error) {
	query := r.baseQuery(ctx)
	for _, p := range reportPredicates(filters) {
		query = query.Where(p.clause, p.args...)
	}

	var rows []ReportRow
	err := query.Order("r.report_date DESC").Order("r.id DESC").Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*ReportRow, error) {
	var rows []ReportRow
	err := r.baseQuery(ctx).Where("r.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// Delete removes a report and returns the deleted row
func (r *ReportRepository) Delete(ctx context.Context, id int64) (*domain.Report, error) {
	var report domain.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := deleteByID(r.db.WithContext(ctx), &domain.Report{}, id); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Report{}).Count(&count).Error
	return count, err
}
