package service

import (
	"context"
	"fmt"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

type ReportService struct {
	reportRepo   *repository.ReportRepository
	locationRepo *repository.LocationRepository
	personRepo   *repository.PersonRepository
	activity     *ActivityRecorder
	logger       *zap.Logger
}

func NewReportService(
	reportRepo *repository.ReportRepository,
	locationRepo *repository.LocationRepository,
	personRepo *repository.PersonRepository,
	activity *ActivityRecorder,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		locationRepo: locationRepo,
		personRepo:   personRepo,
		activity:     activity,
		logger:       logger,
	}
}

// List returns reports matching every non-empty filter, newest report date first
func (s *ReportService) List(ctx context.Context, filters domain.ReportFilters) ([]domain.ReportDTO, error) {
	rows, err := s.reportRepo.List(ctx, filters)
	if err != nil {
		return nil, mapper.FormatError("reports", "list", err)
	}

	dtos := make([]domain.ReportDTO, len(rows))
	for i := range rows {
		dtos[i] = mapper.ToReportDTO(&rows[i])
	}
	return dtos, nil
}

func (s *ReportService) GetByID(ctx context.Context, id int64) (*domain.ReportDTO, error) {
	row, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReportNotFound)
	}

	dto := mapper.ToReportDTO(row)
	return &dto, nil
}

func (s *ReportService) Create(ctx context.Context, req *domain.CreateReportRequest) (*domain.ReportDTO, error) {
	if err := ensureLocation(ctx, s.locationRepo, req.LocationID); err != nil {
		return nil, err
	}
	if req.AuthorID != nil {
		if _, err := s.personRepo.GetByID(ctx, *req.AuthorID); err != nil {
			return nil, notFound(err, ErrPersonNotFound)
		}
	}

	report := &domain.Report{
		LocationID: req.LocationID,
		AuthorID:   req.AuthorID,
		Title:      req.Title,
		Body:       req.Body,
		ReportType: req.ReportType,
		ReportDate: domain.NormalizeDate(req.ReportDate),
	}
	if report.ReportType == "" {
		report.ReportType = domain.ReportTypeGeneral
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, mapper.FormatError("report", "create", err)
	}

	s.activity.Record(ctx, domain.EntityReport, report.ID, domain.ActionCreated,
		fmt.Sprintf("Report %q filed", report.Title))

	// Re-read for the joined location and author names
	return s.GetByID(ctx, report.ID)
}

func (s *ReportService) Delete(ctx context.Context, id int64) error {
	report, err := s.reportRepo.Delete(ctx, id)
	if err != nil {
		return notFound(err, ErrReportNotFound)
	}

	s.activity.Record(ctx, domain.EntityReport, id, domain.ActionDeleted,
		fmt.Sprintf("Report %q deleted", report.Title))
	return nil
}
