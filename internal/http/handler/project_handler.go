package handler

import (
	"net/http"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// ListByLocation godoc
// @Summary List projects of a location
// @Description Top-5 projects first, then by name
// @Tags Projects
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {array} domain.ProjectDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /locations/{id}/projects [get]
func (h *ProjectHandler) ListByLocation(w http.ResponseWriter, r *http.Request) {
	locationID, ok := parseID(w, r, "id", "location")
	if !ok {
		return
	}

	projects, err := h.projectService.ListByLocation(r.Context(), locationID)
	if err != nil {
		handleServiceError(w, h.logger, err, "list projects")
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

// GetByID godoc
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "get project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// Create godoc
// @Summary Create project under a location
// @Description Status defaults to on-track and phase to planning
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param request body domain.ProjectRequest true "Project data"
// @Success 201 {object} domain.ProjectDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /locations/{id}/projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	locationID, ok := parseID(w, r, "id", "location")
	if !ok {
		return
	}

	var req domain.ProjectRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	project, err := h.projectService.Create(r.Context(), locationID, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create project")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

// Update godoc
// @Summary Update project
// @Description A status change is recorded as a separate status_changed activity entry
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body domain.ProjectRequest true "Project data"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "project")
	if !ok {
		return
	}

	var req domain.ProjectRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	project, err := h.projectService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// Delete godoc
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "delete project")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Project deleted"})
}
