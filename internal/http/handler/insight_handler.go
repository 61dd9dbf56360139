package handler

import (
	"net/http"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

// InsightHandler serves the AI insight panels
type InsightHandler struct {
	insightService *service.InsightService
	logger         *zap.Logger
}

func NewInsightHandler(insightService *service.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		logger:         logger,
	}
}

// ProgramOverview godoc
// @Summary Program overview
// @Tags AI
// @Produce json
// @Success 200 {object} domain.ProgramOverviewDTO
// @Router /ai/program-overview [get]
func (h *InsightHandler) ProgramOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.insightService.ProgramOverview(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "load program overview")
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// Metrics godoc
// @Summary Program metrics
// @Tags AI
// @Produce json
// @Success 200 {object} domain.InsightMetricsDTO
// @Router /ai/metrics [get]
func (h *InsightHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.insightService.Metrics(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "load insight metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}

// SubmitMetricNote godoc
// @Summary Submit a metrics report
// @Tags AI
// @Accept json
// @Produce json
// @Param request body domain.MetricNoteRequest true "Report"
// @Success 201 {object} domain.MetricNoteDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /ai/metrics [post]
func (h *InsightHandler) SubmitMetricNote(w http.ResponseWriter, r *http.Request) {
	var req domain.MetricNoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	note, err := h.insightService.SubmitMetricNote(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "store metric note")
		return
	}

	respondJSON(w, http.StatusCreated, note)
}

// LocationAnalysis godoc
// @Summary Location analysis
// @Description Unknown locations get a generic answer rather than 404
// @Tags AI
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} domain.LocationAnalysisDTO
// @Failure 400 {object} domain.ErrorResponse
// @Router /locations/{id}/ai-analysis [get]
func (h *InsightHandler) LocationAnalysis(w http.ResponseWriter, r *http.Request) {
	locationID, ok := parseID(w, r, "id", "location")
	if !ok {
		return
	}

	analysis, err := h.insightService.LocationAnalysis(r.Context(), locationID)
	if err != nil {
		handleServiceError(w, h.logger, err, "analyse location")
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}
