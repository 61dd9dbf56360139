package repository_test

import (
	"context"
	"testing"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/repository"
	"github.com/straye-as/portfolio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRepository_ProjectStatsByLocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewDashboardRepository(db)
	ctx := context.Background()

	beta := testutil.CreateTestLocation(t, db, "Beta")
	alpha := testutil.CreateTestLocation(t, db, "Alpha")
	testutil.CreateTestLocation(t, db, "Gamma")

	testutil.CreateTestProject(t, db, alpha.ID, "A1", domain.ProjectStatusAtRisk, 100, 120)
	testutil.CreateTestProject(t, db, alpha.ID, "A2", domain.ProjectStatusBehind, 300, 60)
	top := testutil.CreateTestProject(t, db, beta.ID, "B1", domain.ProjectStatusComplete, 50, 50)
	require.NoError(t, db.Model(top).Update("is_top_5", true).Error)

	rows, err := repo.ProjectStatsByLocation(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Alpha", rows[0].LocationName)
	assert.Equal(t, 2, rows[0].TotalProjects)
	assert.Equal(t, 1, rows[0].AtRisk)
	assert.Equal(t, 1, rows[0].Behind)
	assert.InDelta(t, 400, rows[0].BudgetPlanned, 0.001)
	assert.InDelta(t, 180, rows[0].BudgetActual, 0.001)

	assert.Equal(t, "Beta", rows[1].LocationName)
	assert.Equal(t, 1, rows[1].Top5Count)
	assert.Equal(t, 1, rows[1].Complete)

	assert.Equal(t, "Gamma", rows[2].LocationName)
	assert.Zero(t, rows[2].TotalProjects)
	assert.Zero(t, rows[2].BudgetPlanned)
}

func TestDashboardRepository_StaffingAndOvercommit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewDashboardRepository(db)
	assignments := repository.NewAssignmentRepository(db)

	hq := testutil.CreateTestLocation(t, db, "HQ")
	lab := testutil.CreateTestLocation(t, db, "Lab")
	busy := testutil.CreateTestPerson(t, db, "Busy Bee")
	calm := testutil.CreateTestPerson(t, db, "Calm Cat")

	testutil.CreateTestAssignment(t, db, busy.ID, hq.ID, 70, domain.AssignmentStatusActive)
	testutil.CreateTestAssignment(t, db, busy.ID, lab.ID, 40, domain.AssignmentStatusActive)
	testutil.CreateTestAssignment(t, db, calm.ID, hq.ID, 100, domain.AssignmentStatusActive)
	testutil.CreateTestAssignment(t, db, calm.ID, lab.ID, 60, domain.AssignmentStatusInactive)

	staffing, err := repo.StaffingByLocation(ctx)
	require.NoError(t, err)
	require.Len(t, staffing, 2)
	assert.Equal(t, "HQ", staffing[0].LocationName)
	assert.Equal(t, 2, staffing[0].Headcount)
	assert.Equal(t, 170, staffing[0].TotalAllocation)
	assert.Equal(t, 1, staffing[1].Headcount)
	assert.Equal(t, 40, staffing[1].TotalAllocation)

	count, err := assignments.CountOvercommitted(ctx, domain.OvercommitThreshold)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	totals, err := assignments.ActiveAllocationByPerson(ctx)
	require.NoError(t, err)
	assert.Equal(t, 110, totals[busy.ID])
	assert.Equal(t, 100, totals[calm.ID])
}

func TestDashboardRepository_Distributions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewDashboardRepository(db)
	ctx := context.Background()

	loc := testutil.CreateTestLocation(t, db, "HQ")
	testutil.CreateTestProject(t, db, loc.ID, "P1", domain.ProjectStatusOnTrack, 0, 0)
	testutil.CreateTestProject(t, db, loc.ID, "P2", domain.ProjectStatusOnTrack, 0, 0)
	testutil.CreateTestProject(t, db, loc.ID, "P3", domain.ProjectStatusBehind, 0, 0)

	statuses, err := repo.StatusDistribution(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, domain.ProjectStatusBehind, statuses[0].Status)
	assert.Equal(t, int64(1), statuses[0].Count)
	assert.Equal(t, domain.ProjectStatusOnTrack, statuses[1].Status)
	assert.Equal(t, int64(2), statuses[1].Count)

	totals, err := repo.BudgetTotals(ctx)
	require.NoError(t, err)
	assert.Zero(t, totals.Planned)
}
