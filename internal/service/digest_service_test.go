package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/notify"
	"github.com/straye-as/portfolio-api/internal/repository"
	"github.com/straye-as/portfolio-api/internal/service"
	"github.com/straye-as/portfolio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeMailer struct {
	sent    []notify.Message
	failFor string
}

func (m *fakeMailer) Send(ctx context.Context, msg notify.Message) error {
	if msg.To == m.failFor {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newDigestService(db *gorm.DB, mailer notify.Mailer) *service.DigestService {
	return service.NewDigestService(
		repository.NewUserRepository(db),
		repository.NewNotificationPreferenceRepository(db),
		repository.NewNotificationRepository(db),
		mailer,
		zap.NewNop(),
	)
}

func TestDigestService_WeeklyDefaults(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	mailer := &fakeMailer{}
	svc := newDigestService(db, mailer)

	sent, err := svc.Run(context.Background(), domain.DigestWeekly)
	require.NoError(t, err)

	// admin has two unread, manager one, viewer none
	assert.Equal(t, 2, sent)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "admin@example.com", mailer.sent[0].To)
	assert.Equal(t, "Your weekly portfolio digest: 2 unread", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, "Hello Admin User")
	assert.Contains(t, mailer.sent[0].Body, "[warning] Overcommitted staff")
	assert.Equal(t, "manager@example.com", mailer.sent[1].To)

	daily, err := svc.Run(context.Background(), domain.DigestDaily)
	require.NoError(t, err)
	assert.Zero(t, daily)
}

func TestDigestService_HonoursPreferencesAndFailures(t *testing.T) {
	db := testutil.SetupSeededDB(t)
	mailer := &fakeMailer{failFor: "admin@example.com"}
	svc := newDigestService(db, mailer)

	prefs := newNotificationService(db)
	_, err := prefs.SetPreferences(userContext(seededUser(t, db, "manager")), &domain.NotificationPreferenceRequest{
		DigestFrequency: domain.DigestNone,
	})
	require.NoError(t, err)

	sent, err := svc.Run(context.Background(), domain.DigestWeekly)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, mailer.sent)

	none, err := svc.Run(context.Background(), domain.DigestNone)
	require.NoError(t, err)
	assert.Zero(t, none)
}
