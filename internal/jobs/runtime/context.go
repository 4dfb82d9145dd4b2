package runtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/facebookgo/clock"
	"gorm.io/datatypes"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	types "github.com/yungbote/lnd-backend/internal/domain"
	jobtypes "github.com/yungbote/lnd-backend/internal/domain/jobs"
	"github.com/yungbote/lnd-backend/internal/pkg/ctxutil"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

/*
Context is the execution handle for a single job run.
It owns the JobRun row: handlers never touch it directly, the runner reports
the outcome through Succeed or Fail. Failing to persist the row is logged and
never changes the job's outcome.
*/
type Context struct {
	Ctx   context.Context
	Job   *types.JobRun
	Repo  repos.JobRunRepo
	Log   *logger.Logger
	Clock clock.Clock
}

// Start records a running JobRun. A nil repo keeps the run in memory only.
func Start(ctx context.Context, repo repos.JobRunRepo, log *logger.Logger, clk clock.Clock, jobType, triggeredBy string) *Context {
	if ctx == nil {
		ctx = ctxutil.Detached(nil)
	}
	now := clk.Now().UTC()
	job := &types.JobRun{
		JobType:     jobType,
		TriggeredBy: triggeredBy,
		Status:      jobtypes.JobRunStatusRunning,
		StartedAt:   now,
	}
	c := &Context{Ctx: ctx, Job: job, Repo: repo, Log: log, Clock: clk}
	if repo != nil {
		if _, err := repo.Create(dbctx.New(ctx), []*types.JobRun{job}); err != nil {
			log.Warn("record job run failed", "job_type", jobType, "error", err)
		}
	}
	return c
}

func (c *Context) Fail(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.finish(jobtypes.JobRunStatusFailed, msg, nil)
}

func (c *Context) Succeed(result any) {
	var res datatypes.JSON
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			c.Log.Warn("encode job result failed", "job_type", c.Job.JobType, "error", err)
		} else {
			res = datatypes.JSON(b)
		}
	}
	c.finish(jobtypes.JobRunStatusSucceeded, "", res)
}

func (c *Context) finish(status, msg string, res datatypes.JSON) {
	now := c.Clock.Now().UTC()
	c.Job.Status = status
	c.Job.Error = msg
	c.Job.Result = res
	c.Job.FinishedAt = &now

	if c.Repo == nil || !c.persisted() {
		return
	}
	// the run's ctx may already be cancelled by shutdown
	ctx := ctxutil.Detached(c.Ctx)
	if err := c.Repo.UpdateFields(dbctx.New(ctx), c.Job.ID, map[string]interface{}{
		"status":      status,
		"error":       msg,
		"result":      res,
		"finished_at": now,
	}); err != nil {
		c.Log.Warn("update job run failed", "job_id", c.Job.ID, "status", status, "error", err)
	}
}

func (c *Context) persisted() bool {
	return !c.Job.CreatedAt.IsZero()
}

// Elapsed is measured on the injected clock.
func (c *Context) Elapsed() time.Duration {
	return c.Clock.Now().UTC().Sub(c.Job.StartedAt)
}
