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

func newProjectService(t *testing.T, db *gorm.DB) (*service.ProjectService, *service.ActivityRecorder) {
	recorder := newRecorder(t, db)
	svc := service.NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewLocationRepository(db),
		recorder,
		zap.NewNop(),
	)
	return svc, recorder
}

func TestProjectService_CreateAppliesDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, recorder := newProjectService(t, db)
	loc := testutil.CreateTestLocation(t, db, "Depot")

	project, err := svc.Create(context.Background(), loc.ID, &domain.ProjectRequest{
		Name:          "Roof Repair",
		BudgetPlanned: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProjectStatusOnTrack, project.Status)
	assert.Equal(t, domain.ProjectPhasePlanning, project.Phase)
	assert.Equal(t, loc.ID, project.LocationID)
	assert.Zero(t, project.PercentComplete)

	recorder.Flush()
	entries := activityFor(t, db, domain.EntityProject, project.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionCreated, entries[0].Action)
	assert.Equal(t, "Roof Repair created at location 1", entries[0].Details)
}

func TestProjectService_CreateUnknownLocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newProjectService(t, db)

	_, err := svc.Create(context.Background(), 999, &domain.ProjectRequest{Name: "Orphan"})
	assert.ErrorIs(t, err, service.ErrLocationNotFound)
}

func TestProjectService_UpdateRecordsStatusChangeOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, recorder := newProjectService(t, db)
	loc := testutil.CreateTestLocation(t, db, "Depot")
	existing := testutil.CreateTestProject(t, db, loc.ID, "Boiler", domain.ProjectStatusOnTrack, 500, 100)
	ctx := context.Background()

	updated, err := svc.Update(ctx, existing.ID, &domain.ProjectRequest{
		Name:            "Boiler",
		Status:          domain.ProjectStatusAtRisk,
		PercentComplete: 30,
		BudgetPlanned:   500,
		BudgetActual:    450,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusAtRisk, updated.Status)
	assert.Equal(t, loc.ID, updated.LocationID)

	// Same status again: only an update entry
	_, err = svc.Update(ctx, existing.ID, &domain.ProjectRequest{
		Name:          "Boiler",
		Status:        domain.ProjectStatusAtRisk,
		BudgetPlanned: 500,
	})
	require.NoError(t, err)

	recorder.Flush()
	entries := activityFor(t, db, domain.EntityProject, existing.ID)

	var updates, statusChanges []domain.ActivityLogEntry
	for _, e := range entries {
		switch e.Action {
		case domain.ActionUpdated:
			updates = append(updates, e)
		case domain.ActionStatusChanged:
			statusChanges = append(statusChanges, e)
		}
	}
	assert.Len(t, updates, 2)
	require.Len(t, statusChanges, 1)
	assert.Equal(t, "Boiler changed from on-track to at-risk", statusChanges[0].Details)
}

func TestProjectService_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newProjectService(t, db)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 404)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	_, err = svc.Update(ctx, 404, &domain.ProjectRequest{Name: "x"})
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 404), service.ErrProjectNotFound)
}

func TestProjectService_ListByLocation(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc, _ := newProjectService(t, db)

	projects, err := svc.ListByLocation(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, projects, 7)

	top5 := 0
	for _, p := range projects {
		assert.Equal(t, int64(1), p.LocationID)
		if p.IsTop5 {
			top5++
		}
	}
	assert.Equal(t, 5, top5)

	none, err := svc.ListByLocation(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
