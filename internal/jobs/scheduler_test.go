package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_AddRunRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), time.Second)

	var calls int
	var gotDeadline bool
	require.NoError(t, s.AddJob("counter", "0 0 * * * *", func(ctx context.Context) error {
		calls++
		_, gotDeadline = ctx.Deadline()
		return nil
	}))

	err := s.AddJob("counter", "@hourly", func(ctx context.Context) error { return nil })
	assert.Error(t, err)

	err = s.AddJob("broken", "not a cron", func(ctx context.Context) error { return nil })
	assert.Error(t, err)

	require.NoError(t, s.RunNow("counter"))
	assert.Equal(t, 1, calls)
	assert.True(t, gotDeadline)

	assert.Equal(t, []string{"counter"}, s.GetJobNames())
	require.NoError(t, s.RemoveJob("counter"))
	assert.Error(t, s.RemoveJob("counter"))
	assert.Error(t, s.RunNow("counter"))
	assert.Empty(t, s.GetJobNames())
}

func TestScheduler_RunNowReturnsJobError(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), 0)
	boom := errors.New("boom")
	require.NoError(t, s.AddJob("failing", "@daily", func(ctx context.Context) error { return boom }))

	assert.ErrorIs(t, s.RunNow("failing"), boom)
}

func TestScheduler_StartStop(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), time.Second)
	s.Start()
	ctx := s.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

type fakeAlerts struct{ runs int }

func (f *fakeAlerts) RunScheduledAlerts(ctx context.Context) (int, error) {
	f.runs++
	return 2, nil
}

type fakeDigest struct {
	mu          sync.Mutex
	frequencies []domain.DigestFrequency
}

func (f *fakeDigest) Run(ctx context.Context, frequency domain.DigestFrequency) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frequencies = append(f.frequencies, frequency)
	return 0, nil
}

type fakeSnapshot struct {
	taken chan struct{}
	err   error
}

func (f *fakeSnapshot) Snapshot(ctx context.Context) (*domain.ExportSnapshotDTO, error) {
	defer func() { f.taken <- struct{}{} }()
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ExportSnapshotDTO{ProjectsKey: "snapshots/projects.csv", PeopleKey: "snapshots/people.csv"}, nil
}

func jobsConfig() *config.JobsConfig {
	return &config.JobsConfig{
		Enabled:          true,
		AlertsCron:       "0 0 7 * * *",
		DailyDigestCron:  "0 0 8 * * *",
		WeeklyDigestCron: "0 0 8 * * MON",
		SnapshotCron:     "0 0 2 * * *",
		TimeoutSeconds:   30,
	}
}

func TestRegisterPortfolioJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), time.Second)
	alerts := &fakeAlerts{}
	digest := &fakeDigest{}
	snapshot := &fakeSnapshot{taken: make(chan struct{}, 1)}

	require.NoError(t, jobs.RegisterPortfolioJobs(s, jobs.Runners{Alerts: alerts, Digest: digest, Snapshot: snapshot}, jobsConfig(), zap.NewNop()))

	assert.Equal(t, []string{
		jobs.BudgetAlertsJobName,
		jobs.DailyDigestJobName,
		jobs.ExportSnapshotJobName,
		jobs.WeeklyDigestJobName,
	}, s.GetJobNames())

	require.NoError(t, s.RunNow(jobs.BudgetAlertsJobName))
	assert.Equal(t, 1, alerts.runs)

	require.NoError(t, s.RunNow(jobs.WeeklyDigestJobName))
	require.NoError(t, s.RunNow(jobs.DailyDigestJobName))
	assert.Equal(t, []domain.DigestFrequency{domain.DigestWeekly, domain.DigestDaily}, digest.frequencies)

	require.NoError(t, s.RunNow(jobs.ExportSnapshotJobName))
	<-snapshot.taken
}

func TestRegisterPortfolioJobs_WithoutStorage(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), time.Second)

	require.NoError(t, jobs.RegisterPortfolioJobs(s, jobs.Runners{Alerts: &fakeAlerts{}, Digest: &fakeDigest{}}, jobsConfig(), zap.NewNop()))
	assert.NotContains(t, s.GetJobNames(), jobs.ExportSnapshotJobName)
}

func TestRegisterPortfolioJobs_SnapshotOnStartup(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), time.Second)
	cfg := jobsConfig()
	cfg.SnapshotOnStartup = true
	snapshot := &fakeSnapshot{taken: make(chan struct{}, 1), err: errors.New("bucket missing")}

	require.NoError(t, jobs.RegisterPortfolioJobs(s, jobs.Runners{Alerts: &fakeAlerts{}, Digest: &fakeDigest{}, Snapshot: snapshot}, cfg, zap.NewNop()))

	select {
	case <-snapshot.taken:
	case <-time.After(5 * time.Second):
		t.Fatal("startup snapshot did not run")
	}
}
