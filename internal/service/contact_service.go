package service

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

// ContactService manages the points of contact of a location
type ContactService struct {
	contactRepo  *repository.ContactRepository
	locationRepo *repository.LocationRepository
	logger       *zap.Logger
}

func NewContactService(
	contactRepo *repository.ContactRepository,
	locationRepo *repository.LocationRepository,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		locationRepo: locationRepo,
		logger:       logger,
	}
}

func (s *ContactService) ListByLocation(ctx context.Context, locationID int64) ([]domain.ContactDTO, error) {
	contacts, err := s.contactRepo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, mapper.FormatError("contacts", "list", err)
	}

	dtos := make([]domain.ContactDTO, len(contacts))
	for i := range contacts {
		dtos[i] = mapper.ToContactDTO(&contacts[i])
	}
	return dtos, nil
}

func (s *ContactService) Create(ctx context.Context, locationID int64, req *domain.ContactRequest) (*domain.ContactDTO, error) {
	if err := ensureLocation(ctx, s.locationRepo, locationID); err != nil {
		return nil, err
	}

	contact := &domain.Contact{
		LocationID: locationID,
		Name:       req.Name,
		Role:       req.Role,
		Email:      req.Email,
		Phone:      req.Phone,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, mapper.FormatError("contact", "create", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) Update(ctx context.Context, id int64, req *domain.ContactRequest) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrContactNotFound)
	}

	contact.Name = req.Name
	contact.Role = req.Role
	contact.Email = req.Email
	contact.Phone = req.Phone

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, mapper.FormatError("contact", "update", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrContactNotFound)
	}
	return nil
}
