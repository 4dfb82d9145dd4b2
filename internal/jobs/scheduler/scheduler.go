package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/jobs/runtime"
	"github.com/yungbote/lnd-backend/internal/observability"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// UnitCounter is implemented by job results that report per-unit outcomes.
type UnitCounter interface {
	Units() map[string]int
}

/*
Scheduler owns the cron loop for the background jobs.
  - Start registers every enabled job from Config and starts the loop.
  - Stop halts scheduling and waits for running jobs or ctx.
  - RunNow executes one job synchronously outside the cron loop.
Every execution is recorded as a JobRun. Job-level errors are logged and
never retried; the next trigger is the only retry.
*/
type Scheduler struct {
	log      *logger.Logger
	cfg      Config
	registry *runtime.Registry
	runs     repos.JobRunRepo
	metrics  *observability.Metrics
	clock    clock.Clock

	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	started bool
}

func New(
	baseLog *logger.Logger,
	cfg Config,
	registry *runtime.Registry,
	runs repos.JobRunRepo,
	metrics *observability.Metrics,
	clk clock.Clock,
) *Scheduler {
	log := baseLog.With("component", "Scheduler")
	cl := cronLogger{log: log}
	return &Scheduler{
		log:      log,
		cfg:      cfg,
		registry: registry,
		runs:     runs,
		metrics:  metrics,
		clock:    clk,
		entries:  map[string]cron.EntryID{},
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("scheduler already started: %w", errs.ErrInvalidState)
	}
	if !s.cfg.Enabled {
		s.log.Info("scheduler disabled")
		return nil
	}
	names := make([]string, 0, len(s.cfg.Jobs))
	for name := range s.cfg.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		jc := s.cfg.Jobs[name]
		if jc.Disabled {
			s.log.Info("scheduled job disabled", "job", name)
			continue
		}
		h, ok := s.registry.Get(name)
		if !ok {
			return fmt.Errorf("no handler registered for job %q: %w", name, errs.ErrNotFound)
		}
		id, err := s.cron.AddFunc(jc.Schedule, func() {
			_, _ = s.execute(context.Background(), h, TriggerSchedule)
		})
		if err != nil {
			return fmt.Errorf("schedule %q (%s): %w", name, jc.Schedule, err)
		}
		s.entries[name] = id
		s.log.Info("scheduled job registered", "job", name, "schedule", jc.Schedule)
	}
	s.cron.Start()
	s.started = true
	return nil
}

// Stop returns once running jobs have finished or ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.mu.Unlock()
	if !started {
		return nil
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out with jobs still running")
		return ctx.Err()
	}
}

// Next reports when a registered job fires after the injected clock's now.
func (s *Scheduler) Next(job string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[job]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	e := s.cron.Entry(id)
	if !e.Valid() {
		return time.Time{}, false
	}
	return e.Schedule.Next(s.clock.Now().UTC()).UTC(), true
}

// RunNow executes job synchronously and returns its run record.
func (s *Scheduler) RunNow(ctx context.Context, job string) (*types.JobRun, error) {
	h, ok := s.registry.Get(job)
	if !ok {
		return nil, fmt.Errorf("unknown job %q: %w", job, errs.ErrNotFound)
	}
	return s.execute(ctx, h, TriggerManual)
}

func (s *Scheduler) execute(ctx context.Context, h runtime.Handler, trigger string) (run *types.JobRun, err error) {
	jobType := h.Type()
	ctx, span := observability.Tracer().Start(ctx, "job."+jobType)
	defer span.End()
	span.SetAttributes(attribute.String("job_type", jobType), attribute.String("trigger", trigger))

	jc := runtime.Start(ctx, s.runs, s.log, s.clock, jobType, trigger)
	s.log.Info("job started", "job", jobType, "trigger", trigger, "job_id", jc.Job.ID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", jobType, r)
		}
		if err != nil {
			jc.Fail(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.Error("job failed", "job", jobType, "job_id", jc.Job.ID, "error", err)
		}
		s.metrics.ObserveJob(jobType, jc.Job.Status, jc.Elapsed())
		run = jc.Job
	}()

	result, err := h.Run(jc)
	if err != nil {
		return jc.Job, err
	}
	if uc, ok := result.(UnitCounter); ok {
		for outcome, n := range uc.Units() {
			s.metrics.AddJobUnits(jobType, outcome, n)
		}
	}
	jc.Succeed(result)
	s.log.Info("job finished", "job", jobType, "job_id", jc.Job.ID, "elapsed", jc.Elapsed())
	return jc.Job, nil
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	if err == nil {
		err = errors.New("unknown")
	}
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

var _ cron.Logger = cronLogger{}
