package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	"github.com/yungbote/lnd-backend/internal/data/repos/testutil"
	jobtypes "github.com/yungbote/lnd-backend/internal/domain/jobs"
	"github.com/yungbote/lnd-backend/internal/jobs"
	"github.com/yungbote/lnd-backend/internal/jobs/runtime"
	"github.com/yungbote/lnd-backend/internal/observability"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
)

type countResult struct {
	Sent int `json:"sent"`
}

func (r countResult) Units() map[string]int { return map[string]int{"sent": r.Sent} }

type fakeHandler struct {
	typ   string
	calls int
	run   func() (any, error)
}

func (f *fakeHandler) Type() string { return f.typ }

func (f *fakeHandler) Run(ctx *runtime.Context) (any, error) {
	f.calls++
	return f.run()
}

func newScheduler(t *testing.T, cfg Config, handlers ...runtime.Handler) (*Scheduler, *clock.Mock, repos.JobRunRepo, *observability.Metrics) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	reg := runtime.NewRegistry()
	for _, h := range handlers {
		require.NoError(t, reg.Register(h))
	}
	clk := clock.NewMock()
	clk.Add(time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC).Sub(clk.Now()))
	runs := repos.NewJobRunRepo(db, log)
	m := observability.NewMetrics()
	return New(log, cfg, reg, runs, m, clk), clk, runs, m
}

func TestRunNowRecordsSuccess(t *testing.T) {
	h := &fakeHandler{typ: jobs.TypeSessionReminders, run: func() (any, error) { return countResult{Sent: 3}, nil }}
	s, _, runs, _ := newScheduler(t, DefaultConfig(), h)

	run, err := s.RunNow(context.Background(), jobs.TypeSessionReminders)
	require.NoError(t, err)
	assert.Equal(t, jobtypes.JobRunStatusSucceeded, run.Status)
	assert.Equal(t, TriggerManual, run.TriggeredBy)
	require.NotNil(t, run.FinishedAt)

	stored, err := runs.GetLatestByType(dbctx.New(context.Background()), jobs.TypeSessionReminders)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, jobtypes.JobRunStatusSucceeded, stored.Status)
	var res countResult
	require.NoError(t, json.Unmarshal(stored.Result, &res))
	assert.Equal(t, 3, res.Sent)
}

func TestRunNowRecordsFailureAndPanic(t *testing.T) {
	failing := &fakeHandler{typ: "failing", run: func() (any, error) { return nil, errors.New("db gone") }}
	panicking := &fakeHandler{typ: "panicking", run: func() (any, error) { panic("boom") }}
	s, _, runs, _ := newScheduler(t, Config{}, failing, panicking)

	run, err := s.RunNow(context.Background(), "failing")
	require.Error(t, err)
	assert.Equal(t, jobtypes.JobRunStatusFailed, run.Status)
	assert.Equal(t, "db gone", run.Error)

	run, err = s.RunNow(context.Background(), "panicking")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	require.NotNil(t, run)
	assert.Equal(t, jobtypes.JobRunStatusFailed, run.Status)

	recent, err := runs.ListRecent(dbctx.New(context.Background()), "", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	for _, r := range recent {
		if r.Status != jobtypes.JobRunStatusFailed {
			t.Fatalf("run %s: status %q, want failed", r.JobType, r.Status)
		}
	}

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStartRegistersEnabledJobs(t *testing.T) {
	reminders := &fakeHandler{typ: jobs.TypeSessionReminders, run: func() (any, error) { return nil, nil }}
	badges := &fakeHandler{typ: jobs.TypeYearlyBadges, run: func() (any, error) { return nil, nil }}
	s, _, _, _ := newScheduler(t, DefaultConfig(), reminders, badges)

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), errs.ErrInvalidState)

	next, ok := s.Next(jobs.TypeYearlyBadges)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), next)

	next, ok = s.Next(jobs.TypeSessionReminders)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), next)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx), "second stop is a no-op")
	assert.Zero(t, reminders.calls)
}

func TestStartFailsForUnknownJob(t *testing.T) {
	cfg := Config{Enabled: true, Jobs: map[string]JobConfig{"nightly_export": {Schedule: "@daily"}}}
	s, _, _, _ := newScheduler(t, cfg)
	assert.ErrorIs(t, s.Start(), errs.ErrNotFound)
}

func TestStartDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	s, _, _, _ := newScheduler(t, cfg)
	require.NoError(t, s.Start())
	_, ok := s.Next(jobs.TypeYearlyBadges)
	assert.False(t, ok)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  session_reminders:
    schedule: "30 7 * * *"
  yearly_badges:
    disabled: true
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "30 7 * * *", cfg.Jobs[jobs.TypeSessionReminders].Schedule)
	assert.True(t, cfg.Jobs[jobs.TypeYearlyBadges].Disabled)
	assert.Equal(t, DefaultBadgeSchedule, cfg.Jobs[jobs.TypeYearlyBadges].Schedule)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("SCHEDULER_CONFIG", "")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("REMINDER_CRON", "15 6 * * *")
	t.Setenv("BADGE_CRON", "")

	cfg := ConfigFromEnv(testutil.Logger(t))
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "15 6 * * *", cfg.Jobs[jobs.TypeSessionReminders].Schedule)
	assert.Equal(t, DefaultBadgeSchedule, cfg.Jobs[jobs.TypeYearlyBadges].Schedule)
}
