package repository_test

import (
	"context"
	"testing"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/repository"
	"github.com/straye-as/portfolio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNotificationRepository_ReadScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNotificationRepository(db)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, db, "alice", domain.RoleViewer)
	bob := testutil.CreateTestUser(t, db, "bob", domain.RoleViewer)

	n := &domain.Notification{UserID: alice.ID, Title: "Hello", Type: domain.NotificationTypeInfo}
	require.NoError(t, repo.Create(ctx, n))
	require.NoError(t, repo.Create(ctx, &domain.Notification{UserID: alice.ID, Title: "Second", Type: domain.NotificationTypeInfo}))

	err := repo.MarkAsRead(ctx, n.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	unread, err := repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, repo.MarkAsRead(ctx, n.ID, alice.ID))
	unread, err = repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	updated, err := repo.MarkAllAsRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	list, err := repo.ListByUser(ctx, alice.ID, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotificationPreferenceRepository_SetIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNotificationPreferenceRepository(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "carol", domain.RoleManager)

	_, err := repo.GetByUser(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	pref := domain.DefaultNotificationPreference(user.ID)
	pref.DigestFrequency = domain.DigestDaily
	require.NoError(t, repo.Set(ctx, &pref))

	again := domain.DefaultNotificationPreference(user.ID)
	again.DigestFrequency = domain.DigestNone
	again.AlertOvercommit = false
	again.BudgetThresholdPct = 125
	require.NoError(t, repo.Set(ctx, &again))
	require.NoError(t, repo.Set(ctx, &again))

	var rows int64
	require.NoError(t, db.Model(&domain.NotificationPreference{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	stored, err := repo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DigestNone, stored.DigestFrequency)
	assert.False(t, stored.AlertOvercommit)
	assert.True(t, stored.AlertStatusChange)
	assert.Equal(t, 125, stored.BudgetThresholdPct)

	byUser, err := repo.ListByUsers(ctx, []int64{user.ID, 9999})
	require.NoError(t, err)
	assert.Len(t, byUser, 1)
}
