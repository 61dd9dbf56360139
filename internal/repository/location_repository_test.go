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

func TestLocationRepository_DeleteCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLocationRepository(db)
	ctx := context.Background()

	loc := testutil.CreateTestLocation(t, db, "Depot")
	other := testutil.CreateTestLocation(t, db, "Annex")
	person := testutil.CreateTestPerson(t, db, "Ola Nordmann")

	require.NoError(t, db.Create(&domain.Contact{LocationID: loc.ID, Name: "Site POC"}).Error)
	testutil.CreateTestProject(t, db, loc.ID, "Roof", domain.ProjectStatusOnTrack, 100, 50)
	testutil.CreateTestProject(t, db, other.ID, "Fence", domain.ProjectStatusOnTrack, 10, 5)
	testutil.CreateTestAssignment(t, db, person.ID, loc.ID, 50, domain.AssignmentStatusActive)
	require.NoError(t, db.Create(&domain.Report{LocationID: loc.ID, Title: "Walkthrough", ReportType: domain.ReportTypeGeneral}).Error)
	require.NoError(t, db.Create(&domain.MetricNote{LocationID: &loc.ID, ReportText: "ok"}).Error)

	require.NoError(t, repo.Delete(ctx, loc.ID))

	count := func(model interface{}, where string, args ...interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&domain.Contact{}, "location_id = ?", loc.ID))
	assert.Zero(t, count(&domain.Project{}, "location_id = ?", loc.ID))
	assert.Zero(t, count(&domain.Assignment{}, "location_id = ?", loc.ID))
	assert.Zero(t, count(&domain.Report{}, "location_id = ?", loc.ID))
	assert.Zero(t, count(&domain.MetricNote{}, "location_id = ?", loc.ID))

	// Unrelated rows survive
	assert.Equal(t, int64(1), count(&domain.Project{}, "location_id = ?", other.ID))
	assert.Equal(t, int64(1), count(&domain.Person{}, "id = ?", person.ID))
}

func TestLocationRepository_DeleteMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLocationRepository(db)

	err := repo.Delete(context.Background(), 4040)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLocationRepository_UpdateIsFullReplacement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLocationRepository(db)
	ctx := context.Background()

	loc := testutil.CreateTestLocation(t, db, "Depot")
	loc.Name = "Central Depot"
	loc.Description = ""
	require.NoError(t, repo.Update(ctx, loc))

	stored, err := repo.GetByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central Depot", stored.Name)
	assert.Empty(t, stored.Description)
}

func TestPersonRepository_DeleteNullsReportAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	loc := testutil.CreateTestLocation(t, db, "Depot")
	person := testutil.CreateTestPerson(t, db, "Kari Nordmann")
	report := &domain.Report{LocationID: loc.ID, AuthorID: &person.ID, Title: "Audit", ReportType: domain.ReportTypeGeneral}
	require.NoError(t, db.Create(report).Error)

	require.NoError(t, repository.NewPersonRepository(db).Delete(ctx, person.ID))

	row, err := repository.NewReportRepository(db).GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Nil(t, row.AuthorID)
	assert.Nil(t, row.AuthorName)
}
