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
)

func TestContactService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewContactService(repository.NewContactRepository(db), repository.NewLocationRepository(db), zap.NewNop())
	ctx := context.Background()
	location := testutil.CreateTestLocation(t, db, "Plant")

	t.Run("create under missing location", func(t *testing.T) {
		_, err := svc.Create(ctx, 9999, &domain.ContactRequest{Name: "Nobody"})
		assert.ErrorIs(t, err, service.ErrLocationNotFound)
	})

	first, err := svc.Create(ctx, location.ID, &domain.ContactRequest{Name: "Ola", Role: "Site Manager", Email: "ola@example.com"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, location.ID, &domain.ContactRequest{Name: "Kari", Role: "Safety"})
	require.NoError(t, err)

	list, err := svc.ListByLocation(ctx, location.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	updated, err := svc.Update(ctx, second.ID, &domain.ContactRequest{Name: "Kari N.", Phone: "555-0199"})
	require.NoError(t, err)
	assert.Equal(t, "Kari N.", updated.Name)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Empty(t, updated.Role)
	assert.Equal(t, location.ID, updated.LocationID)

	t.Run("update missing", func(t *testing.T) {
		_, err := svc.Update(ctx, 9999, &domain.ContactRequest{Name: "X"})
		assert.ErrorIs(t, err, service.ErrContactNotFound)
	})

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.ErrorIs(t, svc.Delete(ctx, first.ID), service.ErrContactNotFound)

	list, err = svc.ListByLocation(ctx, location.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
