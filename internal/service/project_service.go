package service

import (
	"context"
	"fmt"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

type ProjectService struct {
	projectRepo  *repository.ProjectRepository
	locationRepo *repository.LocationRepository
	activity     *ActivityRecorder
	logger       *zap.Logger
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	locationRepo *repository.LocationRepository,
	activity *ActivityRecorder,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		locationRepo: locationRepo,
		activity:     activity,
		logger:       logger,
	}
}

// ListByLocation returns the projects of a location, top-5 projects first, then by name
func (s *ProjectService) ListByLocation(ctx context.Context, locationID int64) ([]domain.ProjectDTO, error) {
	projects, err := s.projectRepo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, mapper.FormatError("projects", "list", err)
	}
	return toProjectDTOs(projects), nil
}

func (s *ProjectService) GetByID(ctx context.Context, id int64) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *ProjectService) Create(ctx context.Context, locationID int64, req *domain.ProjectRequest) (*domain.ProjectDTO, error) {
	if err := ensureLocation(ctx, s.locationRepo, locationID); err != nil {
		return nil, err
	}

	project := &domain.Project{LocationID: locationID}
	applyProjectRequest(project, req)

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, mapper.FormatError("project", "create", err)
	}

	s.activity.Record(ctx, domain.EntityProject, project.ID, domain.ActionCreated,
		fmt.Sprintf("%s created at location %d", project.Name, project.LocationID))

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// Update replaces the project. An "updated" entry is always written; a
// "status_changed" entry is added only when the status actually moves.
func (s *ProjectService) Update(ctx context.Context, id int64, req *domain.ProjectRequest) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}

	oldStatus := project.Status
	applyProjectRequest(project, req)

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, mapper.FormatError("project", "update", err)
	}

	s.activity.Record(ctx, domain.EntityProject, project.ID, domain.ActionUpdated,
		fmt.Sprintf("%s updated", project.Name))

	if oldStatus != project.Status {
		s.logger.Info("project status changed",
			zap.Int64("project_id", project.ID),
			zap.String("from", string(oldStatus)),
			zap.String("to", string(project.Status)),
		)
		s.activity.Record(ctx, domain.EntityProject, project.ID, domain.ActionStatusChanged,
			fmt.Sprintf("%s changed from %s to %s", project.Name, oldStatus, project.Status))
	}

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrProjectNotFound)
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrProjectNotFound)
	}

	s.activity.Record(ctx, domain.EntityProject, id, domain.ActionDeleted,
		fmt.Sprintf("%s deleted", project.Name))
	return nil
}

// applyProjectRequest copies the request onto the project, filling defaults for
// omitted status and phase
func applyProjectRequest(project *domain.Project, req *domain.ProjectRequest) {
	project.Name = req.Name
	project.Description = req.Description
	project.IsTop5 = req.IsTop5
	project.Status = req.Status
	project.Phase = req.Phase
	project.StartDate = domain.NormalizeDate(req.StartDate)
	project.EndDate = domain.NormalizeDate(req.EndDate)
	project.PercentComplete = req.PercentComplete
	project.BudgetPlanned = req.BudgetPlanned
	project.BudgetActual = req.BudgetActual

	if project.Status == "" {
		project.Status = domain.ProjectStatusOnTrack
	}
	if project.Phase == "" {
		project.Phase = domain.ProjectPhasePlanning
	}
}

func toProjectDTOs(projects []domain.Project) []domain.ProjectDTO {
	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = mapper.ToProjectDTO(&projects[i])
	}
	return dtos
}
