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

func TestReportRepository_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewReportRepository(db)
	ctx := context.Background()

	hq := testutil.CreateTestLocation(t, db, "HQ")
	plant := testutil.CreateTestLocation(t, db, "Plant")
	author := testutil.CreateTestPerson(t, db, "Inspector Gadget")

	d1 := domain.NewDate(2024, 1, 10)
	d2 := domain.NewDate(2024, 3, 5)
	d3 := domain.NewDate(2024, 2, 1)
	reports := []domain.Report{
		{LocationID: hq.ID, AuthorID: &author.ID, Title: "Roof inspection", Body: "Leaks found", ReportType: domain.ReportTypeInspection, ReportDate: &d1},
		{LocationID: hq.ID, Title: "Quarterly summary", Body: "All good with the ROOF", ReportType: domain.ReportTypeQuarterly, ReportDate: &d2},
		{LocationID: plant.ID, Title: "Boiler inspection", Body: "Pressure nominal", ReportType: domain.ReportTypeInspection, ReportDate: &d3},
	}
	require.NoError(t, db.Create(&reports).Error)

	t.Run("no filters newest first", func(t *testing.T) {
		rows, err := repo.List(ctx, domain.ReportFilters{})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Quarterly summary", rows[0].Title)
		assert.Equal(t, "Boiler inspection", rows[1].Title)
		assert.Equal(t, "Roof inspection", rows[2].Title)
		assert.Equal(t, "HQ", rows[2].LocationName)
		require.NotNil(t, rows[2].AuthorName)
		assert.Equal(t, "Inspector Gadget", *rows[2].AuthorName)
		assert.Nil(t, rows[0].AuthorName)
	})

	t.Run("search is case insensitive over title and body", func(t *testing.T) {
		rows, err := repo.List(ctx, domain.ReportFilters{Search: "roof"})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		rows, err := repo.List(ctx, domain.ReportFilters{Search: "inspection", ReportType: domain.ReportTypeInspection, LocationID: &plant.ID})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Boiler inspection", rows[0].Title)
	})

	t.Run("type only", func(t *testing.T) {
		rows, err := repo.List(ctx, domain.ReportFilters{ReportType: domain.ReportTypeQuarterly})
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}

func TestReportRepository_GetByIDMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, err := repository.NewReportRepository(db).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
