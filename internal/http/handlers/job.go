package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/http/response"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
)

// JobRunner is satisfied by *scheduler.Scheduler.
type JobRunner interface {
	RunNow(ctx context.Context, job string) (*types.JobRun, error)
}

type JobHandler struct {
	runner JobRunner
	runs   repos.JobRunRepo
}

func NewJobHandler(runner JobRunner, runs repos.JobRunRepo) *JobHandler {
	return &JobHandler{runner: runner, runs: runs}
}

// POST /api/jobs/:type/run
//
// A run that fails still answers 200 with the failed record.
func (h *JobHandler) RunNow(c *gin.Context) {
	run, err := h.runner.RunNow(c.Request.Context(), c.Param("type"))
	if err != nil && run == nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": run})
}

// GET /api/jobs/recent?type=session_reminders&limit=20
func (h *JobHandler) ListRecent(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > maxPageLimit {
		limit = 20
	}
	runs, err := h.runs.ListRecent(dbctx.New(c.Request.Context()), c.Query("type"), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": runs})
}
