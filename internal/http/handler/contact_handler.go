package handler

import (
	"net/http"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

// ContactHandler serves the points of contact (POCs) of a location
type ContactHandler struct {
	contactService *service.ContactService
	logger         *zap.Logger
}

func NewContactHandler(contactService *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// ListByLocation godoc
// @Summary List POCs of a location
// @Tags POCs
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {array} domain.ContactDTO
// @Failure 400 {object} domain.ErrorResponse
// @Router /locations/{id}/pocs [get]
func (h *ContactHandler) ListByLocation(w http.ResponseWriter, r *http.Request) {
	locationID, ok := parseID(w, r, "id", "location")
	if !ok {
		return
	}

	contacts, err := h.contactService.ListByLocation(r.Context(), locationID)
	if err != nil {
		handleServiceError(w, h.logger, err, "list contacts")
		return
	}

	respondJSON(w, http.StatusOK, contacts)
}

// Create godoc
// @Summary Add a POC to a location
// @Tags POCs
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param request body domain.ContactRequest true "POC data"
// @Success 201 {object} domain.ContactDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /locations/{id}/pocs [post]
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	locationID, ok := parseID(w, r, "id", "location")
	if !ok {
		return
	}

	var req domain.ContactRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	contact, err := h.contactService.Create(r.Context(), locationID, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create contact")
		return
	}

	respondJSON(w, http.StatusCreated, contact)
}

// Update godoc
// @Summary Update POC
// @Tags POCs
// @Accept json
// @Produce json
// @Param id path int true "POC ID"
// @Param request body domain.ContactRequest true "POC data"
// @Success 200 {object} domain.ContactDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /pocs/{id} [put]
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "POC")
	if !ok {
		return
	}

	var req domain.ContactRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	contact, err := h.contactService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update contact")
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// Delete godoc
// @Summary Delete POC
// @Tags POCs
// @Produce json
// @Param id path int true "POC ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /pocs/{id} [delete]
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "POC")
	if !ok {
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "delete contact")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "POC deleted"})
}
