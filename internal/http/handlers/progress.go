package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lnd-backend/internal/http/response"
	"github.com/yungbote/lnd-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// POST /api/lessons/:lesson_id/complete
func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "lesson_id")
	if !ok {
		return
	}
	var req struct {
		QuizScore float64 `json:"quiz_score"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	res, err := h.progress.CompleteLesson(c.Request.Context(), userID, lessonID, req.QuizScore)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/trainings/:id/progress
func (h *ProgressHandler) TrainingProgress(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	trainingID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.progress.GetTrainingProgress(c.Request.Context(), userID, trainingID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}
