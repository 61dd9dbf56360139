package handler

import (
	"context"
	"net/http"

	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// serve writes whatever load returns. The aggregates are recomputed on every request.
func serve[T any](h *DashboardHandler, operation string, load func(context.Context) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := load(r.Context())
		if err != nil {
			handleServiceError(w, h.logger, err, operation)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// Summary godoc
// @Summary Portfolio summary
// @Description Totals across the portfolio. overcommitted_count counts people whose active allocation exceeds 100.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardSummaryDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	serve(h, "build dashboard summary", h.dashboardService.Summary)(w, r)
}

// ProjectsByLocation godoc
// @Summary Projects grouped by location
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.LocationProjectsDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /dashboard/projects-by-location [get]
func (h *DashboardHandler) ProjectsByLocation(w http.ResponseWriter, r *http.Request) {
	serve(h, "group projects by location", h.dashboardService.ProjectsByLocation)(w, r)
}

// PeopleByLocation godoc
// @Summary Active staff grouped by location
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.LocationPeopleDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /dashboard/people-by-location [get]
func (h *DashboardHandler) PeopleByLocation(w http.ResponseWriter, r *http.Request) {
	serve(h, "group people by location", h.dashboardService.PeopleByLocation)(w, r)
}

// Heatmap godoc
// @Summary Portfolio heatmap
// @Description Per location budget ratio, average completion, status counts and staffing. budget_ratio is 1 when nothing is planned.
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.HeatmapEntryDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /dashboard/heatmap [get]
func (h *DashboardHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	serve(h, "build heatmap", h.dashboardService.Heatmap)(w, r)
}

// BudgetByLocation godoc
// @Summary Budget chart
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.BudgetByLocationDTO
// @Router /dashboard/chart/budget-by-location [get]
func (h *DashboardHandler) BudgetByLocation(w http.ResponseWriter, r *http.Request) {
	serve(h, "build budget chart", h.dashboardService.BudgetByLocation)(w, r)
}

// StatusDistribution godoc
// @Summary Project status chart
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.StatusCountDTO
// @Router /dashboard/chart/status-distribution [get]
func (h *DashboardHandler) StatusDistribution(w http.ResponseWriter, r *http.Request) {
	serve(h, "build status chart", h.dashboardService.StatusDistribution)(w, r)
}

// PhaseDistribution godoc
// @Summary Project phase chart
// @Description Phases in lifecycle order
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.PhaseCountDTO
// @Router /dashboard/chart/phase-distribution [get]
func (h *DashboardHandler) PhaseDistribution(w http.ResponseWriter, r *http.Request) {
	serve(h, "build phase chart", h.dashboardService.PhaseDistribution)(w, r)
}

// StaffingByLocation godoc
// @Summary Staffing chart
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.StaffingByLocationDTO
// @Router /dashboard/chart/staffing-by-location [get]
func (h *DashboardHandler) StaffingByLocation(w http.ResponseWriter, r *http.Request) {
	serve(h, "build staffing chart", h.dashboardService.StaffingByLocation)(w, r)
}
