package handler

import (
	"net/http"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/service"
	"go.uber.org/zap"
)

// NotificationHandler serves the caller's inbox and notification preferences
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List godoc
// @Summary List notifications
// @Description Newest first, for the authenticated user only
// @Tags Notifications
// @Produce json
// @Param limit query int false "Maximum notifications (max 200)" default(50)
// @Success 200 {array} domain.NotificationDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationService.List(r.Context(), queryInt(r, "limit"))
	if err != nil {
		handleServiceError(w, h.logger, err, "list notifications")
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.UnreadCountDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.UnreadCount(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "count unread notifications")
		return
	}

	respondJSON(w, http.StatusOK, count)
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Description Notifications of other users are reported as not found
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "mark notification read")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Notification marked as read"})
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.MarkAllReadDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.notificationService.MarkAllAsRead(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "mark notifications read")
		return
	}

	respondJSON(w, http.StatusOK, domain.MarkAllReadDTO{Updated: updated})
}

// GetPreferences godoc
// @Summary Get notification preferences
// @Description Returns the defaults when nothing has been saved: weekly digest, all alerts on, threshold 110
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.NotificationPreferenceDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notification-preferences [get]
func (h *NotificationHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.notificationService.GetPreferences(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "get notification preferences")
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// SetPreferences godoc
// @Summary Save notification preferences
// @Description Idempotent. Omitted fields keep their defaults.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body domain.NotificationPreferenceRequest true "Preferences"
// @Success 200 {object} domain.NotificationPreferenceDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notification-preferences [put]
func (h *NotificationHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	var req domain.NotificationPreferenceRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	prefs, err := h.notificationService.SetPreferences(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "save notification preferences")
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}
