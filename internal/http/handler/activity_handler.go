package handler

import (
	"net/http"

	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

// ActivityHandler serves the activity feed
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// List godoc
// @Summary Activity feed
// @Description Newest entries first
// @Tags Activity
// @Produce json
// @Param entity_type query string false "Filter by entity type" Enums(location, project, assignment, report)
// @Param limit query int false "Maximum entries (max 500)" default(50)
// @Success 200 {array} domain.ActivityLogEntryDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /activity [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.activityService.List(r.Context(), r.URL.Query().Get("entity_type"), queryInt(r, "limit"))
	if err != nil {
		handleServiceError(w, h.logger, err, "list activity")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
