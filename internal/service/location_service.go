package service

import (
	"context"
	"fmt"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

type LocationService struct {
	locationRepo *repository.LocationRepository
	activity     *ActivityRecorder
	logger       *zap.Logger
}

func NewLocationService(
	locationRepo *repository.LocationRepository,
	activity *ActivityRecorder,
	logger *zap.Logger,
) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		activity:     activity,
		logger:       logger,
	}
}

func (s *LocationService) List(ctx context.Context) ([]domain.LocationDTO, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("locations", "list", err)
	}

	dtos := make([]domain.LocationDTO, len(locations))
	for i := range locations {
		dtos[i] = mapper.ToLocationDTO(&locations[i])
	}
	return dtos, nil
}

func (s *LocationService) GetByID(ctx context.Context, id int64) (*domain.LocationDTO, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrLocationNotFound)
	}

	dto := mapper.ToLocationDTO(location)
	return &dto, nil
}

func (s *LocationService) Create(ctx context.Context, req *domain.LocationRequest) (*domain.LocationDTO, error) {
	location := &domain.Location{
		Name:        req.Name,
		Description: req.Description,
		Lat:         req.Lat,
		Lng:         req.Lng,
	}

	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, mapper.FormatError("location", "create", err)
	}

	s.activity.Record(ctx, domain.EntityLocation, location.ID, domain.ActionCreated,
		fmt.Sprintf("%s created", location.Name))

	dto := mapper.ToLocationDTO(location)
	return &dto, nil
}

// Update replaces every editable field of the location
func (s *LocationService) Update(ctx context.Context, id int64, req *domain.LocationRequest) (*domain.LocationDTO, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrLocationNotFound)
	}

	location.Name = req.Name
	location.Description = req.Description
	location.Lat = req.Lat
	location.Lng = req.Lng

	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, mapper.FormatError("location", "update", err)
	}

	s.activity.Record(ctx, domain.EntityLocation, location.ID, domain.ActionUpdated,
		fmt.Sprintf("%s updated", location.Name))

	dto := mapper.ToLocationDTO(location)
	return &dto, nil
}

// Delete removes the location; contacts, projects, assignments, reports and
// metric notes go with it through foreign key cascades
func (s *LocationService) Delete(ctx context.Context, id int64) error {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrLocationNotFound)
	}

	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrLocationNotFound)
	}

	s.logger.Info("location deleted", zap.Int64("location_id", id), zap.String("name", location.Name))
	s.activity.Record(ctx, domain.EntityLocation, id, domain.ActionDeleted,
		fmt.Sprintf("%s deleted", location.Name))
	return nil
}

// ensureLocation returns ErrLocationNotFound when the location does not exist
func ensureLocation(ctx context.Context, repo *repository.LocationRepository, id int64) error {
	exists, err := repo.Exists(ctx, id)
	if err != nil {
		return mapper.FormatError("location", "check", err)
	}
	if !exists {
		return ErrLocationNotFound
	}
	return nil
}
