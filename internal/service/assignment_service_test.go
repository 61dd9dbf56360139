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

func newAssignmentService(t *testing.T, db *gorm.DB) (*service.AssignmentService, *service.ActivityRecorder) {
	recorder := newRecorder(t, db)
	svc := service.NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewPersonRepository(db),
		repository.NewLocationRepository(db),
		recorder,
		zap.NewNop(),
	)
	return svc, recorder
}

func TestAssignmentService_CreateDefaultsAllocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, recorder := newAssignmentService(t, db)
	loc := testutil.CreateTestLocation(t, db, "Depot")
	person := testutil.CreateTestPerson(t, db, "Ada Lovelace")

	created, err := svc.Create(context.Background(), &domain.AssignmentRequest{
		PersonID:   person.ID,
		LocationID: loc.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, created.AllocationPct)
	assert.Equal(t, domain.AssignmentStatusActive, created.Status)

	recorder.Flush()
	entries := activityFor(t, db, domain.EntityAssignment, created.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, "Assignment created for person 1 at location 1 (100%)", entries[0].Details)
}

func TestAssignmentService_CreateKeepsExplicitZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newAssignmentService(t, db)
	loc := testutil.CreateTestLocation(t, db, "Depot")
	person := testutil.CreateTestPerson(t, db, "Ada Lovelace")

	created, err := svc.Create(context.Background(), &domain.AssignmentRequest{
		PersonID:      person.ID,
		LocationID:    loc.ID,
		AllocationPct: intPtr(0),
	})
	require.NoError(t, err)
	assert.Zero(t, created.AllocationPct)
}

func TestAssignmentService_AllowsOvercommit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newAssignmentService(t, db)
	loc := testutil.CreateTestLocation(t, db, "Depot")
	person := testutil.CreateTestPerson(t, db, "Ada Lovelace")
	testutil.CreateTestAssignment(t, db, person.ID, loc.ID, 90, domain.AssignmentStatusActive)

	_, err := svc.Create(context.Background(), &domain.AssignmentRequest{
		PersonID:      person.ID,
		LocationID:    loc.ID,
		AllocationPct: intPtr(60),
	})
	assert.NoError(t, err)
}

func TestAssignmentService_MissingEnds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newAssignmentService(t, db)
	loc := testutil.CreateTestLocation(t, db, "Depot")
	person := testutil.CreateTestPerson(t, db, "Ada Lovelace")
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.AssignmentRequest{PersonID: 999, LocationID: loc.ID})
	assert.ErrorIs(t, err, service.ErrPersonNotFound)

	_, err = svc.Create(ctx, &domain.AssignmentRequest{PersonID: person.ID, LocationID: 999})
	assert.ErrorIs(t, err, service.ErrLocationNotFound)

	_, err = svc.Update(ctx, 999, &domain.AssignmentRequest{PersonID: person.ID, LocationID: loc.ID})
	assert.ErrorIs(t, err, service.ErrAssignmentNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 999), service.ErrAssignmentNotFound)
}

func TestAssignmentService_UpdateReplacesFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newAssignmentService(t, db)
	loc := testutil.CreateTestLocation(t, db, "Depot")
	other := testutil.CreateTestLocation(t, db, "Warehouse")
	person := testutil.CreateTestPerson(t, db, "Ada Lovelace")
	existing := testutil.CreateTestAssignment(t, db, person.ID, loc.ID, 40, domain.AssignmentStatusActive)

	updated, err := svc.Update(context.Background(), existing.ID, &domain.AssignmentRequest{
		PersonID:       person.ID,
		LocationID:     other.ID,
		RoleAtLocation: "Lead",
		Status:         domain.AssignmentStatusInactive,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.LocationID)
	assert.Equal(t, "Lead", updated.RoleAtLocation)
	assert.Equal(t, domain.AssignmentStatusInactive, updated.Status)
	assert.Equal(t, 100, updated.AllocationPct)
}

func TestAssignmentService_Listings(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	svc, _ := newAssignmentService(t, db)
	ctx := context.Background()

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 12)
	for _, a := range all {
		assert.NotEmpty(t, a.PersonName)
		assert.NotEmpty(t, a.LocationName)
	}

	byPerson, err := svc.ListByPerson(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byPerson, 3)
	for _, a := range byPerson {
		assert.NotEmpty(t, a.LocationName)
	}

	byLocation, err := svc.ListByLocation(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byLocation, 4)
	for _, a := range byLocation {
		assert.NotEmpty(t, a.PersonName)
	}
}
