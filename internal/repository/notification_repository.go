package repository

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// CreateBatch inserts several notifications in one statement
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

// ListByUser returns a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// ListUnreadByUser returns a user's unread notifications, oldest first
func (r *NotificationRepository) ListUnreadByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at").
		Order("id").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead marks one of the user's notifications read.
// It returns gorm.ErrRecordNotFound when the notification does not belong to the user.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

type NotificationPreferenceRepository struct {
	db *gorm.DB
}

func NewNotificationPreferenceRepository(db *gorm.DB) *NotificationPreferenceRepository {
	return &NotificationPreferenceRepository{db: db}
}

// GetByUser returns the stored preferences or gorm.ErrRecordNotFound
func (r *NotificationPreferenceRepository) GetByUser(ctx context.Context, userID int64) (*domain.NotificationPreference, error) {
	var pref domain.NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// Set stores the preferences for pref.UserID, inserting or replacing the existing row
func (r *NotificationPreferenceRepository) Set(ctx context.Context, pref *domain.NotificationPreference) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"digest_frequency",
			"alert_overcommit",
			"alert_status_change",
			"alert_budget_threshold",
			"budget_threshold_pct",
			"updated_at",
		}),
	}).Create(pref).Error
	if err != nil {
		return err
	}

	// Re-read so the caller sees the surviving row, not the rejected insert
	stored, err := r.GetByUser(ctx, pref.UserID)
	if err != nil {
		return err
	}
	*pref = *stored
	return nil
}

// ListByUsers returns stored preferences keyed by user id
func (r *NotificationPreferenceRepository) ListByUsers(ctx context.Context, userIDs []int64) (map[int64]domain.NotificationPreference, error) {
	result := make(map[int64]domain.NotificationPreference, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var prefs []domain.NotificationPreference
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&prefs).Error; err != nil {
		return nil, err
	}
	for _, p := range prefs {
		result[p.UserID] = p
	}
	return result, nil
}
