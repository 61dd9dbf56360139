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

func newAlertService(db *gorm.DB) *service.AlertService {
	return service.NewAlertService(
		repository.NewUserRepository(db),
		repository.NewNotificationPreferenceRepository(db),
		repository.NewNotificationRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewDashboardRepository(db),
		zap.NewNop(),
	)
}

func notificationsWithTitle(t *testing.T, db *gorm.DB, userID int64, title string) []domain.Notification {
	t.Helper()
	var notifications []domain.Notification
	require.NoError(t, db.Where("user_id = ? AND title = ?", userID, title).Order("id").Find(&notifications).Error)
	return notifications
}

func TestAlertService_ScheduledOvercommitAlerts(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newAlertService(db)
	admin := seededUser(t, db, "admin")
	viewer := seededUser(t, db, "viewer")

	// The viewer opts out of overcommit alerts
	prefs := newNotificationService(db)
	_, err := prefs.SetPreferences(userContext(viewer), &domain.NotificationPreferenceRequest{AlertOvercommit: boolPtr(false)})
	require.NoError(t, err)

	created, err := svc.RunScheduledAlerts(context.Background())
	require.NoError(t, err)
	// admin and manager get overcommit alerts; no location is above the default 110%
	assert.Equal(t, 2, created)

	alerts := notificationsWithTitle(t, db, admin.ID, "Overcommitted staff")
	// The seeded notification plus the new alert
	require.Len(t, alerts, 2)
	latest := alerts[1]
	assert.Equal(t, "Allocated above 100%: Alice Johnson (130%)", latest.Message)
	assert.Equal(t, domain.NotificationTypeWarning, latest.Type)
	require.NotNil(t, latest.Link)
	assert.Equal(t, "/people/workload", *latest.Link)

	assert.Empty(t, notificationsWithTitle(t, db, viewer.ID, "Overcommitted staff"))
}

func TestAlertService_ScheduledBudgetAlerts(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc := newAlertService(db)
	manager := seededUser(t, db, "manager")

	prefs := newNotificationService(db)
	_, err := prefs.SetPreferences(userContext(manager), &domain.NotificationPreferenceRequest{
		AlertOvercommit:    boolPtr(false),
		BudgetThresholdPct: intPtr(75),
	})
	require.NoError(t, err)

	_, err = svc.RunScheduledAlerts(context.Background())
	require.NoError(t, err)

	alerts := notificationsWithTitle(t, db, manager.ID, "Budget threshold exceeded")
	require.Len(t, alerts, 1)
	assert.Equal(t, "Above 75% of planned budget: Manufacturing Plant (81%), R&D Center (78%)", alerts[0].Message)
	assert.Equal(t, domain.NotificationTypeAlert, alerts[0].Type)
}

func TestAlertService_NothingToReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAlertService(db)
	testutil.CreateTestUser(t, db, "manager", domain.RoleManager)
	loc := testutil.CreateTestLocation(t, db, "Depot")
	testutil.CreateTestProject(t, db, loc.ID, "Unplanned", domain.ProjectStatusOnTrack, 0, 5000)

	created, err := svc.RunScheduledAlerts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestAlertService_StatusChangeThroughRecorder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	subscriber := testutil.CreateTestUser(t, db, "manager", domain.RoleManager)
	optedOut := testutil.CreateTestUser(t, db, "viewer", domain.RoleViewer)
	_, err := newNotificationService(db).SetPreferences(userContext(optedOut), &domain.NotificationPreferenceRequest{
		AlertStatusChange: boolPtr(false),
	})
	require.NoError(t, err)

	projects, recorder := newProjectService(t, db)
	recorder.AddListener(newAlertService(db).OnActivity)

	loc := testutil.CreateTestLocation(t, db, "Depot")
	project := testutil.CreateTestProject(t, db, loc.ID, "Boiler", domain.ProjectStatusOnTrack, 100, 10)

	_, err = projects.Update(context.Background(), project.ID, &domain.ProjectRequest{
		Name:   "Boiler",
		Status: domain.ProjectStatusBehind,
	})
	require.NoError(t, err)
	recorder.Flush()

	got := notificationsWithTitle(t, db, subscriber.ID, "Project status changed")
	require.Len(t, got, 1)
	assert.Equal(t, "Boiler changed from on-track to behind", got[0].Message)
	require.NotNil(t, got[0].Link)
	assert.Equal(t, "/projects/1", *got[0].Link)

	assert.Empty(t, notificationsWithTitle(t, db, optedOut.ID, "Project status changed"))
}

func TestAlertService_OnActivityIgnoresOtherEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "manager", domain.RoleManager)
	svc := newAlertService(db)

	err := svc.OnActivity(context.Background(), domain.ActivityLogEntry{
		EntityType: domain.EntityProject,
		EntityID:   1,
		Action:     domain.ActionUpdated,
		Details:    "Boiler updated",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}
