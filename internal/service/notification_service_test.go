package service_test

import (
	"context"
	"testing"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/repository"
	"github.com/straye-as/portfolio-api/internal/service"
	"github.com/straye-as/portfolio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newNotificationService(db *gorm.DB) *service.NotificationService {
	return service.NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewNotificationPreferenceRepository(db),
		zap.NewNop(),
	)
}

func seededUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user, err := repository.NewUserRepository(db).GetByUsername(context.Background(), username)
	require.NoError(t, err)
	return user
}

func TestNotificationService_InboxIsPerUser(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newNotificationService(db)
	admin := userContext(seededUser(t, db, "admin"))
	manager := userContext(seededUser(t, db, "manager"))

	list, err := svc.List(admin, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	count, err := svc.UnreadCount(manager)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)

	// The manager cannot touch the admin's notifications
	err = svc.MarkAsRead(manager, list[0].ID)
	assert.ErrorIs(t, err, service.ErrNotificationNotFound)

	require.NoError(t, svc.MarkAsRead(admin, list[0].ID))
	count, err = svc.UnreadCount(admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)

	updated, err := svc.MarkAllAsRead(admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	updated, err = svc.MarkAllAsRead(admin)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestNotificationService_RequiresCaller(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)
	ctx := context.Background()

	_, err := svc.List(ctx, 10)
	assert.ErrorIs(t, err, service.ErrUserContextRequired)
	_, err = svc.UnreadCount(ctx)
	assert.ErrorIs(t, err, service.ErrUserContextRequired)
	assert.ErrorIs(t, svc.MarkAsRead(ctx, 1), service.ErrUserContextRequired)
	_, err = svc.GetPreferences(ctx)
	assert.ErrorIs(t, err, service.ErrUserContextRequired)
}

func TestNotificationService_Preferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)
	user := testutil.CreateTestUser(t, db, "manager", domain.RoleManager)
	ctx := userContext(user)

	defaults, err := svc.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DigestWeekly, defaults.DigestFrequency)
	assert.True(t, defaults.AlertOvercommit)
	assert.Equal(t, 110, defaults.BudgetThresholdPct)

	req := &domain.NotificationPreferenceRequest{
		DigestFrequency:    domain.DigestDaily,
		AlertStatusChange:  boolPtr(false),
		BudgetThresholdPct: intPtr(90),
	}
	set, err := svc.SetPreferences(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.DigestDaily, set.DigestFrequency)
	assert.False(t, set.AlertStatusChange)
	assert.True(t, set.AlertOvercommit)

	// Repeating the request changes nothing
	_, err = svc.SetPreferences(ctx, req)
	require.NoError(t, err)

	got, err := svc.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, *set, *got)

	var rows int64
	require.NoError(t, db.Model(&domain.NotificationPreference{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	// Omitted fields fall back to the defaults on replacement
	reset, err := svc.SetPreferences(ctx, &domain.NotificationPreferenceRequest{})
	require.NoError(t, err)
	assert.Equal(t, *defaults, *reset)
}
