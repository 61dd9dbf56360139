package handler

import (
	"net/http"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

// PersonHandler handles people and their workload
type PersonHandler struct {
	personService   *service.PersonService
	workloadService *service.WorkloadService
	logger          *zap.Logger
}

func NewPersonHandler(personService *service.PersonService, workloadService *service.WorkloadService, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{
		personService:   personService,
		workloadService: workloadService,
		logger:          logger,
	}
}

// List godoc
// @Summary List people
// @Tags People
// @Produce json
// @Success 200 {array} domain.PersonDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /people [get]
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	people, err := h.personService.List(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "list people")
		return
	}

	respondJSON(w, http.StatusOK, people)
}

// GetByID godoc
// @Summary Get person
// @Tags People
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} domain.PersonDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /people/{id} [get]
func (h *PersonHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "person")
	if !ok {
		return
	}

	person, err := h.personService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "get person")
		return
	}

	respondJSON(w, http.StatusOK, person)
}

// Create godoc
// @Summary Create person
// @Tags People
// @Accept json
// @Produce json
// @Param request body domain.PersonRequest true "Person data"
// @Success 201 {object} domain.PersonDTO
// @Failure 400 {object} domain.ErrorResponse
// @Router /people [post]
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.PersonRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	person, err := h.personService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create person")
		return
	}

	respondJSON(w, http.StatusCreated, person)
}

// Update godoc
// @Summary Update person
// @Tags People
// @Accept json
// @Produce json
// @Param id path int true "Person ID"
// @Param request body domain.PersonRequest true "Person data"
// @Success 200 {object} domain.PersonDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /people/{id} [put]
func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "person")
	if !ok {
		return
	}

	var req domain.PersonRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	person, err := h.personService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update person")
		return
	}

	respondJSON(w, http.StatusOK, person)
}

// Delete godoc
// @Summary Delete person
// @Description Removes the person's assignments; reports they authored keep an empty author
// @Tags People
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /people/{id} [delete]
func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "person")
	if !ok {
		return
	}

	if err := h.personService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "delete person")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Person deleted"})
}

// WorkloadSummary godoc
// @Summary Workload per person
// @Description Active allocation per person, highest first. Totals above 100 are flagged as overcommitted.
// @Tags People
// @Produce json
// @Success 200 {array} domain.WorkloadDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /people/workload/summary [get]
func (h *PersonHandler) WorkloadSummary(w http.ResponseWriter, r *http.Request) {
	workload, err := h.workloadService.Summary(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "build workload summary")
		return
	}

	respondJSON(w, http.StatusOK, workload)
}
