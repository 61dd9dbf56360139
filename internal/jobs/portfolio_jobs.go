package jobs

import (
	"context"
	"fmt"

	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/domain"
	"go.uber.org/zap"
)

// Job names
const (
	BudgetAlertsJobName   = "budget_alerts"
	DailyDigestJobName    = "daily_digest"
	WeeklyDigestJobName   = "weekly_digest"
	ExportSnapshotJobName = "export_snapshot"
)

// AlertRunner creates the scheduled overcommit and budget notifications.
// It lets the jobs package call the service without importing it.
type AlertRunner interface {
	RunScheduledAlerts(ctx context.Context) (int, error)
}

// DigestRunner emails unread notifications for one digest cadence
type DigestRunner interface {
	Run(ctx context.Context, frequency domain.DigestFrequency) (int, error)
}

// SnapshotRunner archives the export reports to object storage
type SnapshotRunner interface {
	Snapshot(ctx context.Context) (*domain.ExportSnapshotDTO, error)
}

// Runners bundles the services driven by the scheduled jobs. Snapshot may be nil
// when no object storage is configured.
type Runners struct {
	Alerts   AlertRunner
	Digest   DigestRunner
	Snapshot SnapshotRunner
}

// RegisterPortfolioJobs registers the alert, digest and snapshot jobs with the scheduler.
// When SnapshotOnStartup is set, a snapshot is taken in a background goroutine so it
// doesn't block API startup.
func RegisterPortfolioJobs(scheduler *Scheduler, runners Runners, cfg *config.JobsConfig, logger *zap.Logger) error {
	alerts := func(ctx context.Context) error {
		created, err := runners.Alerts.RunScheduledAlerts(ctx)
		if err != nil {
			return err
		}
		logger.Info("budget alerts evaluated", zap.Int("notifications", created))
		return nil
	}
	if err := scheduler.AddJob(BudgetAlertsJobName, cfg.AlertsCron, alerts); err != nil {
		return err
	}

	if err := scheduler.AddJob(DailyDigestJobName, cfg.DailyDigestCron, digestJob(runners.Digest, domain.DigestDaily)); err != nil {
		return err
	}
	if err := scheduler.AddJob(WeeklyDigestJobName, cfg.WeeklyDigestCron, digestJob(runners.Digest, domain.DigestWeekly)); err != nil {
		return err
	}

	if runners.Snapshot == nil {
		logger.Info("export snapshot job disabled, no storage configured")
		return nil
	}

	snapshot := func(ctx context.Context) error {
		result, err := runners.Snapshot.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("export snapshot: %w", err)
		}
		logger.Info("export snapshot archived",
			zap.String("projects_key", result.ProjectsKey),
			zap.String("people_key", result.PeopleKey))
		return nil
	}
	if err := scheduler.AddJob(ExportSnapshotJobName, cfg.SnapshotCron, snapshot); err != nil {
		return err
	}

	if cfg.SnapshotOnStartup {
		go func() {
			_ = scheduler.RunNow(ExportSnapshotJobName)
		}()
	}
	return nil
}

func digestJob(runner DigestRunner, frequency domain.DigestFrequency) Job {
	return func(ctx context.Context) error {
		_, err := runner.Run(ctx, frequency)
		return err
	}
}
