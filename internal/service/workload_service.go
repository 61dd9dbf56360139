package service

import (
	"context"
	"sort"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

// WorkloadService computes per-person allocation across active assignments
type WorkloadService struct {
	personRepo     *repository.PersonRepository
	assignmentRepo *repository.AssignmentRepository
	logger         *zap.Logger
}

func NewWorkloadService(
	personRepo *repository.PersonRepository,
	assignmentRepo *repository.AssignmentRepository,
	logger *zap.Logger,
) *WorkloadService {
	return &WorkloadService{
		personRepo:     personRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// Summary returns one entry per person, sorted by total allocation descending and then
// by name. People without active assignments are listed with a zero total and no
// assignments. A person is overcommitted above 100%.
func (s *WorkloadService) Summary(ctx context.Context) ([]domain.WorkloadDTO, error) {
	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("people", "list", err)
	}

	rows, err := s.assignmentRepo.ListActiveWithNames(ctx)
	if err != nil {
		return nil, mapper.FormatError("workload", "compute", err)
	}
	return BuildWorkload(people, rows), nil
}

// Overcommitted returns the entries of Summary whose total exceeds the threshold
func (s *WorkloadService) Overcommitted(ctx context.Context) ([]domain.WorkloadDTO, error) {
	all, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	var over []domain.WorkloadDTO
	for _, w := range all {
		if w.Overcommitted {
			over = append(over, w)
		}
	}
	return over, nil
}

// BuildWorkload groups active assignment rows by person. Every given person gets an
// entry; rows for people not in the list add entries of their own.
func BuildWorkload(people []domain.Person, rows []repository.AssignmentRow) []domain.WorkloadDTO {
	byPerson := make(map[int64]*domain.WorkloadDTO, len(people))
	var order []int64

	for _, person := range people {
		byPerson[person.ID] = &domain.WorkloadDTO{
			ID:           person.ID,
			Name:         person.Name,
			Role:         person.Role,
			Organization: person.Organization,
			Assignments:  []domain.WorkloadAssignmentDTO{},
		}
		order = append(order, person.ID)
	}

	for _, row := range rows {
		w, ok := byPerson[row.PersonID]
		if !ok {
			w = &domain.WorkloadDTO{
				ID:           row.PersonID,
				Name:         row.PersonName,
				Role:         row.PersonRole,
				Organization: row.Organization,
				Assignments:  []domain.WorkloadAssignmentDTO{},
			}
			byPerson[row.PersonID] = w
			order = append(order, row.PersonID)
		}

		w.TotalAllocation += row.AllocationPct
		w.Assignments = append(w.Assignments, domain.WorkloadAssignmentDTO{
			LocationID:     row.LocationID,
			LocationName:   row.LocationName,
			RoleAtLocation: row.RoleAtLocation,
			AllocationPct:  row.AllocationPct,
		})
	}

	result := make([]domain.WorkloadDTO, 0, len(order))
	for _, id := range order {
		w := byPerson[id]
		w.Overcommitted = w.TotalAllocation > domain.OvercommitThreshold
		sort.SliceStable(w.Assignments, func(i, j int) bool {
			return w.Assignments[i].AllocationPct > w.Assignments[j].AllocationPct
		})
		result = append(result, *w)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalAllocation != result[j].TotalAllocation {
			return result[i].TotalAllocation > result[j].TotalAllocation
		}
		return result[i].Name < result[j].Name
	})
	return result
}
