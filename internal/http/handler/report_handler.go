package handler

import (
	"net/http"
	"strconv"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// List godoc
// @Summary List reports
// @Description Newest report date first. Filters combine with AND.
// @Tags Reports
// @Produce json
// @Param search query string false "Match title or body"
// @Param type query string false "Report type" Enums(general, quarterly, inspection, sitrep, assessment)
// @Param location_id query int false "Location ID"
// @Success 200 {array} domain.ReportDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := domain.ReportFilters{
		Search:     query.Get("search"),
		ReportType: domain.ReportType(query.Get("type")),
	}

	if raw := query.Get("location_id"); raw != "" {
		locationID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid location_id")
			return
		}
		filters.LocationID = &locationID
	}

	reports, err := h.reportService.List(r.Context(), filters)
	if err != nil {
		handleServiceError(w, h.logger, err, "list reports")
		return
	}

	respondJSON(w, http.StatusOK, reports)
}

// GetByID godoc
// @Summary Get report
// @Tags Reports
// @Produce json
// @Param id path int true "Report ID"
// @Success 200 {object} domain.ReportDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "report")
	if !ok {
		return
	}

	report, err := h.reportService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "get report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Create godoc
// @Summary File a report
// @Description report_type defaults to general
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body domain.CreateReportRequest true "Report data"
// @Success 201 {object} domain.ReportDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReportRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	report, err := h.reportService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create report")
		return
	}

	respondJSON(w, http.StatusCreated, report)
}

// Delete godoc
// @Summary Delete report
// @Tags Reports
// @Produce json
// @Param id path int true "Report ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "report")
	if !ok {
		return
	}

	if err := h.reportService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "delete report")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Report deleted"})
}
