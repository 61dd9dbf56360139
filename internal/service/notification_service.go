package service

import (
	"context"
	"errors"

	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 200
)

// NotificationService handles the per-user inbox and notification preferences.
// Every method acts on the authenticated caller.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	preferenceRepo   *repository.NotificationPreferenceRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	preferenceRepo *repository.NotificationPreferenceRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		preferenceRepo:   preferenceRepo,
		logger:           logger,
	}
}

func callerID(ctx context.Context) (int64, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return 0, ErrUserContextRequired
	}
	return userCtx.UserID, nil
}

// List returns the caller's notifications newest first
func (s *NotificationService) List(ctx context.Context, limit int) ([]domain.NotificationDTO, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	limit = clampLimit(limit, DefaultNotificationLimit, MaxNotificationLimit)
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, mapper.FormatError("notifications", "list", err)
	}

	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = mapper.ToNotificationDTO(&notifications[i])
	}
	return dtos, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context) (*domain.UnreadCountDTO, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, mapper.FormatError("unread notifications", "count", err)
	}
	return &domain.UnreadCountDTO{Count: count}, nil
}

// MarkAsRead marks one of the caller's notifications as read. Someone else's
// notification is reported as not found.
func (s *NotificationService) MarkAsRead(ctx context.Context, id int64) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}

	if err := s.notificationRepo.MarkAsRead(ctx, id, userID); err != nil {
		return notFound(err, ErrNotificationNotFound)
	}
	return nil
}

// MarkAllAsRead marks every unread notification of the caller and returns how many changed
func (s *NotificationService) MarkAllAsRead(ctx context.Context) (int64, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return 0, err
	}

	updated, err := s.notificationRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, mapper.FormatError("notifications", "mark read", err)
	}

	s.logger.Debug("notifications marked read", zap.Int64("user_id", userID), zap.Int64("count", updated))
	return updated, nil
}

// GetPreferences returns the caller's stored preferences, or the defaults when none are saved
func (s *NotificationService) GetPreferences(ctx context.Context) (*domain.NotificationPreferenceDTO, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	pref, err := s.preferenceRepo.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mapper.FormatError("notification preferences", "get", err)
		}
		def := domain.DefaultNotificationPreference(userID)
		pref = &def
	}

	dto := mapper.ToNotificationPreferenceDTO(pref)
	return &dto, nil
}

// SetPreferences replaces the caller's preferences. Omitted fields take the defaults,
// so repeating the same request leaves the same row.
func (s *NotificationService) SetPreferences(ctx context.Context, req *domain.NotificationPreferenceRequest) (*domain.NotificationPreferenceDTO, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	pref := domain.DefaultNotificationPreference(userID)
	if req.DigestFrequency != "" {
		pref.DigestFrequency = req.DigestFrequency
	}
	if req.AlertOvercommit != nil {
		pref.AlertOvercommit = *req.AlertOvercommit
	}
	if req.AlertStatusChange != nil {
		pref.AlertStatusChange = *req.AlertStatusChange
	}
	if req.AlertBudgetThreshold != nil {
		pref.AlertBudgetThreshold = *req.AlertBudgetThreshold
	}
	if req.BudgetThresholdPct != nil {
		pref.BudgetThresholdPct = *req.BudgetThresholdPct
	}

	if err := s.preferenceRepo.Set(ctx, &pref); err != nil {
		return nil, mapper.FormatError("notification preferences", "set", err)
	}

	dto := mapper.ToNotificationPreferenceDTO(&pref)
	return &dto, nil
}
