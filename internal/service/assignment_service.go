package service

import (
	"context"
	"fmt"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

// AssignmentService manages person-to-location assignments. Allocation is
// advisory: writes are never rejected for pushing a person above 100%.
type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	personRepo     *repository.PersonRepository
	locationRepo   *repository.LocationRepository
	activity       *ActivityRecorder
	logger         *zap.Logger
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	personRepo *repository.PersonRepository,
	locationRepo *repository.LocationRepository,
	activity *ActivityRecorder,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		personRepo:     personRepo,
		locationRepo:   locationRepo,
		activity:       activity,
		logger:         logger,
	}
}

// List returns every assignment with person and location names, ordered by location then person
func (s *AssignmentService) List(ctx context.Context) ([]domain.AssignmentListItemDTO, error) {
	rows, err := s.assignmentRepo.ListWithNames(ctx)
	if err != nil {
		return nil, mapper.FormatError("assignments", "list", err)
	}

	dtos := make([]domain.AssignmentListItemDTO, len(rows))
	for i := range rows {
		dtos[i] = mapper.ToAssignmentListItemDTO(&rows[i])
	}
	return dtos, nil
}

func (s *AssignmentService) ListByLocation(ctx context.Context, locationID int64) ([]domain.LocationAssignmentDTO, error) {
	rows, err := s.assignmentRepo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, mapper.FormatError("assignments", "list", err)
	}

	dtos := make([]domain.LocationAssignmentDTO, len(rows))
	for i := range rows {
		dtos[i] = mapper.ToLocationAssignmentDTO(&rows[i])
	}
	return dtos, nil
}

func (s *AssignmentService) ListByPerson(ctx context.Context, personID int64) ([]domain.PersonAssignmentDTO, error) {
	rows, err := s.assignmentRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, mapper.FormatError("assignments", "list", err)
	}

	dtos := make([]domain.PersonAssignmentDTO, len(rows))
	for i := range rows {
		dtos[i] = mapper.ToPersonAssignmentDTO(&rows[i])
	}
	return dtos, nil
}

func (s *AssignmentService) Create(ctx context.Context, req *domain.AssignmentRequest) (*domain.AssignmentDTO, error) {
	if err := s.ensureEnds(ctx, req); err != nil {
		return nil, err
	}

	assignment := &domain.Assignment{}
	applyAssignmentRequest(assignment, req)

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, mapper.FormatError("assignment", "create", err)
	}

	s.activity.Record(ctx, domain.EntityAssignment, assignment.ID, domain.ActionCreated,
		fmt.Sprintf("Assignment created for person %d at location %d (%d%%)",
			assignment.PersonID, assignment.LocationID, assignment.AllocationPct))

	dto := mapper.ToAssignmentDTO(assignment)
	return &dto, nil
}

// Update replaces the assignment; omitted status and allocation take their defaults
func (s *AssignmentService) Update(ctx context.Context, id int64, req *domain.AssignmentRequest) (*domain.AssignmentDTO, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}

	if err := s.ensureEnds(ctx, req); err != nil {
		return nil, err
	}

	applyAssignmentRequest(assignment, req)

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, mapper.FormatError("assignment", "update", err)
	}

	s.activity.Record(ctx, domain.EntityAssignment, assignment.ID, domain.ActionUpdated,
		fmt.Sprintf("Assignment updated for person %d at location %d (%d%%)",
			assignment.PersonID, assignment.LocationID, assignment.AllocationPct))

	dto := mapper.ToAssignmentDTO(assignment)
	return &dto, nil
}

func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrAssignmentNotFound)
	}

	s.activity.Record(ctx, domain.EntityAssignment, id, domain.ActionDeleted, "Assignment deleted")
	return nil
}

func (s *AssignmentService) ensureEnds(ctx context.Context, req *domain.AssignmentRequest) error {
	if _, err := s.personRepo.GetByID(ctx, req.PersonID); err != nil {
		return notFound(err, ErrPersonNotFound)
	}
	return ensureLocation(ctx, s.locationRepo, req.LocationID)
}

func applyAssignmentRequest(assignment *domain.Assignment, req *domain.AssignmentRequest) {
	assignment.PersonID = req.PersonID
	assignment.LocationID = req.LocationID
	assignment.RoleAtLocation = req.RoleAtLocation
	assignment.StartDate = domain.NormalizeDate(req.StartDate)
	assignment.EndDate = domain.NormalizeDate(req.EndDate)
	assignment.Status = req.Status
	if assignment.Status == "" {
		assignment.Status = domain.AssignmentStatusActive
	}

	// An explicit 0 is kept; only an omitted allocation takes the default
	assignment.AllocationPct = domain.DefaultAllocationPct
	if req.AllocationPct != nil {
		assignment.AllocationPct = *req.AllocationPct
	}
}
