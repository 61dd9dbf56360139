package service

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	dashboardRepo  *repository.DashboardRepository
	locationRepo   *repository.LocationRepository
	projectRepo    *repository.ProjectRepository
	assignmentRepo *repository.AssignmentRepository
	logger         *zap.Logger
}

func NewDashboardService(
	dashboardRepo *repository.DashboardRepository,
	locationRepo *repository.LocationRepository,
	projectRepo *repository.ProjectRepository,
	assignmentRepo *repository.AssignmentRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		dashboardRepo:  dashboardRepo,
		locationRepo:   locationRepo,
		projectRepo:    projectRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// Summary runs the portfolio-wide counts concurrently, then sums the budgets
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummaryDTO, error) {
	var summary domain.DashboardSummaryDTO

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TotalLocations, err = s.dashboardRepo.CountLocations(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalPeople, err = s.dashboardRepo.CountPeople(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalProjects, err = s.dashboardRepo.CountProjects(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalReports, err = s.dashboardRepo.CountReports(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.AtRiskCount, err = s.dashboardRepo.CountProjectsByStatus(gctx, domain.ProjectStatusAtRisk)
		return err
	})
	g.Go(func() (err error) {
		summary.BehindCount, err = s.dashboardRepo.CountProjectsByStatus(gctx, domain.ProjectStatusBehind)
		return err
	})
	g.Go(func() (err error) {
		summary.OvercommittedCount, err = s.assignmentRepo.CountOvercommitted(gctx, domain.OvercommitThreshold)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapper.FormatError("dashboard summary", "compute", err)
	}

	totals, err := s.dashboardRepo.BudgetTotals(ctx)
	if err != nil {
		return nil, mapper.FormatError("budget totals", "compute", err)
	}
	summary.TotalBudgetPlanned = totals.Planned
	summary.TotalBudgetActual = totals.Actual

	return &summary, nil
}

// ProjectsByLocation groups every project under its location
func (s *DashboardService) ProjectsByLocation(ctx context.Context) ([]domain.LocationProjectsDTO, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("locations", "list", err)
	}
	projects, err := s.projectRepo.ListAllGrouped(ctx)
	if err != nil {
		return nil, mapper.FormatError("projects", "list", err)
	}

	byLocation := make(map[int64][]domain.Project)
	for _, p := range projects {
		byLocation[p.LocationID] = append(byLocation[p.LocationID], p)
	}

	result := make([]domain.LocationProjectsDTO, len(locations))
	for i, loc := range locations {
		group := byLocation[loc.ID]
		entry := domain.LocationProjectsDTO{
			LocationID:   loc.ID,
			LocationName: loc.Name,
			Projects:     toProjectDTOs(group),
			ProjectCount: len(group),
		}
		for _, p := range group {
			if p.IsTop5 {
				entry.Top5Count++
			}
			switch p.Status {
			case domain.ProjectStatusAtRisk:
				entry.AtRiskCount++
			case domain.ProjectStatusBehind:
				entry.BehindCount++
			}
			entry.TotalBudgetPlanned += p.BudgetPlanned
			entry.TotalBudgetActual += p.BudgetActual
		}
		result[i] = entry
	}
	return result, nil
}

// PeopleByLocation groups active assignments under their location, by person name
func (s *DashboardService) PeopleByLocation(ctx context.Context) ([]domain.LocationPeopleDTO, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("locations", "list", err)
	}
	rows, err := s.assignmentRepo.ListActiveWithNames(ctx)
	if err != nil {
		return nil, mapper.FormatError("assignments", "list", err)
	}

	byLocation := make(map[int64][]repository.AssignmentRow)
	for _, row := range rows {
		byLocation[row.LocationID] = append(byLocation[row.LocationID], row)
	}

	result := make([]domain.LocationPeopleDTO, len(locations))
	for i, loc := range locations {
		group := byLocation[loc.ID]
		entry := domain.LocationPeopleDTO{
			LocationID:   loc.ID,
			LocationName: loc.Name,
			People:       make([]domain.LocationPersonDTO, len(group)),
		}
		distinct := make(map[int64]struct{})
		for j, row := range group {
			entry.People[j] = domain.LocationPersonDTO{
				PersonID:       row.PersonID,
				PersonName:     row.PersonName,
				PersonRole:     row.PersonRole,
				Organization:   row.Organization,
				RoleAtLocation: row.RoleAtLocation,
				Status:         row.Status,
				Email:          row.PersonEmail,
				AllocationPct:  row.AllocationPct,
			}
			distinct[row.PersonID] = struct{}{}
			entry.TotalAllocation += row.AllocationPct
		}
		entry.PeopleCount = len(distinct)
		result[i] = entry
	}
	return result, nil
}

// Heatmap returns budget and schedule health per location, ordered by name
func (s *DashboardService) Heatmap(ctx context.Context) ([]domain.HeatmapEntryDTO, error) {
	stats, err := s.dashboardRepo.ProjectStatsByLocation(ctx)
	if err != nil {
		return nil, mapper.FormatError("project stats", "compute", err)
	}
	staffing, err := s.dashboardRepo.StaffingByLocation(ctx)
	if err != nil {
		return nil, mapper.FormatError("staffing stats", "compute", err)
	}

	staffByLocation := make(map[int64]repository.LocationStaffingStats, len(staffing))
	for _, st := range staffing {
		staffByLocation[st.LocationID] = st
	}

	result := make([]domain.HeatmapEntryDTO, len(stats))
	for i, st := range stats {
		staff := staffByLocation[st.LocationID]
		result[i] = domain.HeatmapEntryDTO{
			LocationID:           st.LocationID,
			LocationName:         st.LocationName,
			BudgetRatio:          BudgetRatio(st.BudgetPlanned, st.BudgetActual),
			BudgetPlanned:        st.BudgetPlanned,
			BudgetActual:         st.BudgetActual,
			AvgCompletion:        averageCompletion(st.CompletionSum, st.TotalProjects),
			OnTrack:              st.OnTrack,
			AtRisk:               st.AtRisk,
			Behind:               st.Behind,
			Complete:             st.Complete,
			TotalProjects:        st.TotalProjects,
			TotalStaffAllocation: staff.TotalAllocation,
			StaffCount:           staff.Headcount,
		}
	}
	return result, nil
}

func (s *DashboardService) BudgetByLocation(ctx context.Context) ([]domain.BudgetByLocationDTO, error) {
	stats, err := s.dashboardRepo.ProjectStatsByLocation(ctx)
	if err != nil {
		return nil, mapper.FormatError("budget by location", "compute", err)
	}

	result := make([]domain.BudgetByLocationDTO, len(stats))
	for i, st := range stats {
		result[i] = domain.BudgetByLocationDTO{
			Name:    st.LocationName,
			Planned: st.BudgetPlanned,
			Actual:  st.BudgetActual,
		}
	}
	return result, nil
}

func (s *DashboardService) StatusDistribution(ctx context.Context) ([]domain.StatusCountDTO, error) {
	rows, err := s.dashboardRepo.StatusDistribution(ctx)
	if err != nil {
		return nil, mapper.FormatError("status distribution", "compute", err)
	}
	if rows == nil {
		rows = []domain.StatusCountDTO{}
	}
	return rows, nil
}

// PhaseDistribution counts projects per phase in lifecycle order; unknown phases sort last
func (s *DashboardService) PhaseDistribution(ctx context.Context) ([]domain.PhaseCountDTO, error) {
	rows, err := s.dashboardRepo.PhaseDistribution(ctx)
	if err != nil {
		return nil, mapper.FormatError("phase distribution", "compute", err)
	}
	if rows == nil {
		rows = []domain.PhaseCountDTO{}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].Phase.Rank(), rows[j].Phase.Rank()
		if ri != rj {
			return ri < rj
		}
		return rows[i].Phase < rows[j].Phase
	})
	return rows, nil
}

func (s *DashboardService) StaffingByLocation(ctx context.Context) ([]domain.StaffingByLocationDTO, error) {
	staffing, err := s.dashboardRepo.StaffingByLocation(ctx)
	if err != nil {
		return nil, mapper.FormatError("staffing by location", "compute", err)
	}

	result := make([]domain.StaffingByLocationDTO, len(staffing))
	for i, st := range staffing {
		result[i] = domain.StaffingByLocationDTO{
			Name:            st.LocationName,
			Headcount:       int64(st.Headcount),
			TotalAllocation: int64(st.TotalAllocation),
		}
	}
	return result, nil
}

// BudgetRatio is actual over planned rounded half away from zero to two decimals,
// or 1 when nothing is planned
func BudgetRatio(planned, actual float64) float64 {
	if planned == 0 {
		return 1
	}
	ratio, _ := decimal.NewFromFloat(actual).
		Div(decimal.NewFromFloat(planned)).
		Round(2).
		Float64()
	return ratio
}

func averageCompletion(sum, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}
