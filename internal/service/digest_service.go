package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/notify"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

// DigestService emails unread notifications to users on their chosen cadence
type DigestService struct {
	userRepo         *repository.UserRepository
	preferenceRepo   *repository.NotificationPreferenceRepository
	notificationRepo *repository.NotificationRepository
	mailer           notify.Mailer
	logger           *zap.Logger
}

func NewDigestService(
	userRepo *repository.UserRepository,
	preferenceRepo *repository.NotificationPreferenceRepository,
	notificationRepo *repository.NotificationRepository,
	mailer notify.Mailer,
	logger *zap.Logger,
) *DigestService {
	return &DigestService{
		userRepo:         userRepo,
		preferenceRepo:   preferenceRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		logger:           logger,
	}
}

// Run sends one digest per user whose preference matches frequency and who has unread
// notifications and an email address. A failed send is logged and skipped.
func (s *DigestService) Run(ctx context.Context, frequency domain.DigestFrequency) (int, error) {
	if frequency == domain.DigestNone {
		return 0, nil
	}

	users, err := recipients(ctx, s.userRepo, s.preferenceRepo)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range users {
		if r.pref.DigestFrequency != frequency || r.user.Email == "" {
			continue
		}

		unread, err := s.notificationRepo.ListUnreadByUser(ctx, r.user.ID)
		if err != nil {
			return sent, mapper.FormatError("unread notifications", "list", err)
		}
		if len(unread) == 0 {
			continue
		}

		msg := notify.Message{
			To:      r.user.Email,
			Subject: fmt.Sprintf("Your %s portfolio digest: %d unread", frequency, len(unread)),
			Body:    digestBody(r.user.Name, unread),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Warn("digest send failed",
				zap.Int64("user_id", r.user.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("digest run complete",
		zap.String("frequency", string(frequency)),
		zap.Int("sent", sent),
	)
	return sent, nil
}

func digestBody(name string, notifications []domain.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYou have %d unread notifications:\n\n", name, len(notifications))
	for _, n := range notifications {
		fmt.Fprintf(&b, "- [%s] %s", n.Type, n.Title)
		if n.Message != "" {
			fmt.Fprintf(&b, ": %s", n.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}
