package handler

import (
	"net/http"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

// LocationHandler handles HTTP requests for locations
type LocationHandler struct {
	locationService *service.LocationService
	logger          *zap.Logger
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *service.LocationService, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		logger:          logger,
	}
}

// List godoc
// @Summary List locations
// @Description Get all locations ordered by name
// @Tags Locations
// @Produce json
// @Success 200 {array} domain.LocationDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /locations [get]
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationService.List(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "list locations")
		return
	}

	respondJSON(w, http.StatusOK, locations)
}

// GetByID godoc
// @Summary Get location
// @Tags Locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} domain.LocationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /locations/{id} [get]
func (h *LocationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "location")
	if !ok {
		return
	}

	location, err := h.locationService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "get location")
		return
	}

	respondJSON(w, http.StatusOK, location)
}

// Create godoc
// @Summary Create location
// @Tags Locations
// @Accept json
// @Produce json
// @Param request body domain.LocationRequest true "Location data"
// @Success 201 {object} domain.LocationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /locations [post]
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.LocationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	location, err := h.locationService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create location")
		return
	}

	respondJSON(w, http.StatusCreated, location)
}

// Update godoc
// @Summary Update location
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param request body domain.LocationRequest true "Location data"
// @Success 200 {object} domain.LocationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /locations/{id} [put]
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "location")
	if !ok {
		return
	}

	var req domain.LocationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	location, err := h.locationService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update location")
		return
	}

	respondJSON(w, http.StatusOK, location)
}

// Delete godoc
// @Summary Delete location
// @Description Deletes the location with its POCs, projects, assignments and reports
// @Tags Locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /locations/{id} [delete]
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "location")
	if !ok {
		return
	}

	if err := h.locationService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "delete location")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Location deleted"})
}
