package service_test

import (
	"context"
	"testing"

	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/repository"
	"github.com/straye-as/portfolio-api/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRecorder(t *testing.T, db *gorm.DB) *service.ActivityRecorder {
	t.Helper()
	recorder := service.NewActivityRecorder(repository.NewActivityRepository(db), 64, zap.NewNop())
	t.Cleanup(recorder.Close)
	return recorder
}

func userContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.Name,
		Role:        user.Role,
	})
}

func activityFor(t *testing.T, db *gorm.DB, entityType string, entityID int64) []domain.ActivityLogEntry {
	t.Helper()
	entries, err := repository.NewActivityRepository(db).ListByEntity(context.Background(), entityType, entityID)
	require.NoError(t, err)
	return entries
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
