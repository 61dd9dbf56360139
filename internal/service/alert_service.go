package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

// AlertService turns portfolio conditions into inbox notifications according to
// each user's preferences
type AlertService struct {
	userRepo         *repository.UserRepository
	preferenceRepo   *repository.NotificationPreferenceRepository
	notificationRepo *repository.NotificationRepository
	assignmentRepo   *repository.AssignmentRepository
	dashboardRepo    *repository.DashboardRepository
	logger           *zap.Logger
}

func NewAlertService(
	userRepo *repository.UserRepository,
	preferenceRepo *repository.NotificationPreferenceRepository,
	notificationRepo *repository.NotificationRepository,
	assignmentRepo *repository.AssignmentRepository,
	dashboardRepo *repository.DashboardRepository,
	logger *zap.Logger,
) *AlertService {
	return &AlertService{
		userRepo:         userRepo,
		preferenceRepo:   preferenceRepo,
		notificationRepo: notificationRepo,
		assignmentRepo:   assignmentRepo,
		dashboardRepo:    dashboardRepo,
		logger:           logger,
	}
}

// recipient is a user with effective preferences
type recipient struct {
	user domain.User
	pref domain.NotificationPreference
}

// recipients returns every user with stored preferences or the defaults
func recipients(ctx context.Context, userRepo *repository.UserRepository, preferenceRepo *repository.NotificationPreferenceRepository) ([]recipient, error) {
	users, err := userRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("users", "list", err)
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	prefs, err := preferenceRepo.ListByUsers(ctx, ids)
	if err != nil {
		return nil, mapper.FormatError("notification preferences", "list", err)
	}

	result := make([]recipient, len(users))
	for i, u := range users {
		pref, ok := prefs[u.ID]
		if !ok {
			pref = domain.DefaultNotificationPreference(u.ID)
		}
		result[i] = recipient{user: u, pref: pref}
	}
	return result, nil
}

// RunScheduledAlerts notifies users about overcommitted staff and locations over their
// budget threshold. It returns the number of notifications created.
func (s *AlertService) RunScheduledAlerts(ctx context.Context) (int, error) {
	rows, err := s.assignmentRepo.ListActiveWithNames(ctx)
	if err != nil {
		return 0, mapper.FormatError("workload", "compute", err)
	}
	var overcommitted []string
	for _, w := range BuildWorkload(nil, rows) {
		if w.Overcommitted {
			overcommitted = append(overcommitted, fmt.Sprintf("%s (%d%%)", w.Name, w.TotalAllocation))
		}
	}

	stats, err := s.dashboardRepo.ProjectStatsByLocation(ctx)
	if err != nil {
		return 0, mapper.FormatError("project stats", "compute", err)
	}

	users, err := recipients(ctx, s.userRepo, s.preferenceRepo)
	if err != nil {
		return 0, err
	}

	var batch []domain.Notification
	for _, r := range users {
		if r.pref.AlertOvercommit && len(overcommitted) > 0 {
			batch = append(batch, domain.Notification{
				UserID:  r.user.ID,
				Title:   "Overcommitted staff",
				Message: "Allocated above 100%: " + strings.Join(overcommitted, ", "),
				Type:    domain.NotificationTypeWarning,
				Link:    strPtr("/people/workload"),
			})
		}

		if r.pref.AlertBudgetThreshold {
			if over := overBudget(stats, r.pref.BudgetThresholdPct); len(over) > 0 {
				batch = append(batch, domain.Notification{
					UserID:  r.user.ID,
					Title:   "Budget threshold exceeded",
					Message: fmt.Sprintf("Above %d%% of planned budget: %s", r.pref.BudgetThresholdPct, strings.Join(over, ", ")),
					Type:    domain.NotificationTypeAlert,
					Link:    strPtr("/dashboard"),
				})
			}
		}
	}

	if len(batch) == 0 {
		return 0, nil
	}
	if err := s.notificationRepo.CreateBatch(ctx, batch); err != nil {
		return 0, mapper.FormatError("alert notifications", "create", err)
	}

	s.logger.Info("scheduled alerts created",
		zap.Int("notifications", len(batch)),
		zap.Int("overcommitted_people", len(overcommitted)),
	)
	return len(batch), nil
}

// overBudget lists locations whose spend ratio, as a percentage, exceeds threshold
func overBudget(stats []repository.LocationProjectStats, threshold int) []string {
	var over []string
	for _, st := range stats {
		if st.BudgetPlanned == 0 {
			continue
		}
		pct := int(math.Round(BudgetRatio(st.BudgetPlanned, st.BudgetActual) * 100))
		if pct > threshold {
			over = append(over, fmt.Sprintf("%s (%d%%)", st.LocationName, pct))
		}
	}
	return over
}

// OnActivity notifies subscribed users when a project changes status. It is
// registered as an ActivityRecorder listener.
func (s *AlertService) OnActivity(ctx context.Context, entry domain.ActivityLogEntry) error {
	if entry.EntityType != domain.EntityProject || entry.Action != domain.ActionStatusChanged {
		return nil
	}

	users, err := recipients(ctx, s.userRepo, s.preferenceRepo)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("/projects/%d", entry.EntityID)
	var batch []domain.Notification
	for _, r := range users {
		if !r.pref.AlertStatusChange {
			continue
		}
		batch = append(batch, domain.Notification{
			UserID:  r.user.ID,
			Title:   "Project status changed",
			Message: entry.Details,
			Type:    domain.NotificationTypeInfo,
			Link:    strPtr(link),
		})
	}

	if len(batch) == 0 {
		return nil
	}
	if err := s.notificationRepo.CreateBatch(ctx, batch); err != nil {
		return mapper.FormatError("status change notifications", "create", err)
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
