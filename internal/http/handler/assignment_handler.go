package handler

import (
	"net/http"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

// AssignmentHandler handles person-to-location assignments
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	logger            *zap.Logger
}

func NewAssignmentHandler(assignmentService *service.AssignmentService, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// List godoc
// @Summary List all assignments
// @Description Flat list joined with person and location names, ordered by location then person
// @Tags Assignments
// @Produce json
// @Success 200 {array} domain.AssignmentListItemDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /assignments [get]
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignmentService.List(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "list assignments")
		return
	}

	respondJSON(w, http.StatusOK, assignments)
}

// ListByLocation godoc
// @Summary List assignments at a location
// @Tags Assignments
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {array} domain.LocationAssignmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Router /locations/{id}/assignments [get]
func (h *AssignmentHandler) ListByLocation(w http.ResponseWriter, r *http.Request) {
	locationID, ok := parseID(w, r, "id", "location")
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListByLocation(r.Context(), locationID)
	if err != nil {
		handleServiceError(w, h.logger, err, "list location assignments")
		return
	}

	respondJSON(w, http.StatusOK, assignments)
}

// ListByPerson godoc
// @Summary List assignments of a person
// @Tags Assignments
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {array} domain.PersonAssignmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Router /people/{id}/assignments [get]
func (h *AssignmentHandler) ListByPerson(w http.ResponseWriter, r *http.Request) {
	personID, ok := parseID(w, r, "id", "person")
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListByPerson(r.Context(), personID)
	if err != nil {
		handleServiceError(w, h.logger, err, "list person assignments")
		return
	}

	respondJSON(w, http.StatusOK, assignments)
}

// Create godoc
// @Summary Create assignment
// @Description allocation_pct defaults to 100 and is not range checked
// @Tags Assignments
// @Accept json
// @Produce json
// @Param request body domain.AssignmentRequest true "Assignment data"
// @Success 201 {object} domain.AssignmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /assignments [post]
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.AssignmentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	assignment, err := h.assignmentService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create assignment")
		return
	}

	respondJSON(w, http.StatusCreated, assignment)
}

// Update godoc
// @Summary Update assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param request body domain.AssignmentRequest true "Assignment data"
// @Success 200 {object} domain.AssignmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "assignment")
	if !ok {
		return
	}

	var req domain.AssignmentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	assignment, err := h.assignmentService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update assignment")
		return
	}

	respondJSON(w, http.StatusOK, assignment)
}

// Delete godoc
// @Summary Delete assignment
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "assignment")
	if !ok {
		return
	}

	if err := h.assignmentService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "delete assignment")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Assignment deleted"})
}
