package service

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

type PersonService struct {
	personRepo *repository.PersonRepository
	logger     *zap.Logger
}

func NewPersonService(personRepo *repository.PersonRepository, logger *zap.Logger) *PersonService {
	return &PersonService{
		personRepo: personRepo,
		logger:     logger,
	}
}

func (s *PersonService) List(ctx context.Context) ([]domain.PersonDTO, error) {
	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("people", "list", err)
	}

	dtos := make([]domain.PersonDTO, len(people))
	for i := range people {
		dtos[i] = mapper.ToPersonDTO(&people[i])
	}
	return dtos, nil
}

func (s *PersonService) GetByID(ctx context.Context, id int64) (*domain.PersonDTO, error) {
	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPersonNotFound)
	}

	dto := mapper.ToPersonDTO(person)
	return &dto, nil
}

func (s *PersonService) Create(ctx context.Context, req *domain.PersonRequest) (*domain.PersonDTO, error) {
	person := &domain.Person{}
	applyPersonRequest(person, req)

	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, mapper.FormatError("person", "create", err)
	}

	dto := mapper.ToPersonDTO(person)
	return &dto, nil
}

func (s *PersonService) Update(ctx context.Context, id int64, req *domain.PersonRequest) (*domain.PersonDTO, error) {
	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPersonNotFound)
	}

	applyPersonRequest(person, req)

	if err := s.personRepo.Update(ctx, person); err != nil {
		return nil, mapper.FormatError("person", "update", err)
	}

	dto := mapper.ToPersonDTO(person)
	return &dto, nil
}

// Delete removes the person with their assignments; reports they wrote keep a null author
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	if err := s.personRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrPersonNotFound)
	}
	return nil
}

func applyPersonRequest(person *domain.Person, req *domain.PersonRequest) {
	person.Name = req.Name
	person.Role = req.Role
	person.Email = req.Email
	person.Phone = req.Phone
	person.Organization = req.Organization
	person.Skills = req.Skills
}
