package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/http/response"
	"github.com/yungbote/lnd-backend/internal/services"
)

type EnrollmentHandler struct {
	enrollments services.EnrollmentService
}

func NewEnrollmentHandler(enrollments services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// POST /api/enrollments
//
// Enrolls the caller unless user_id names someone else.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		UserID     *uuid.UUID `json:"user_id"`
		TrainingID uuid.UUID  `json:"training_id" binding:"required"`
		SessionID  *uuid.UUID `json:"session_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	userID := caller
	if req.UserID != nil {
		userID = *req.UserID
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), services.EnrollInput{
		UserID:     userID,
		TrainingID: req.TrainingID,
		SessionID:  req.SessionID,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": enrollment})
}

// POST /api/enrollments/assign
func (h *EnrollmentHandler) Assign(c *gin.Context) {
	managerID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		UserID     uuid.UUID  `json:"user_id" binding:"required"`
		TrainingID uuid.UUID  `json:"training_id" binding:"required"`
		SessionID  *uuid.UUID `json:"session_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	enrollment, err := h.enrollments.Assign(c.Request.Context(), services.AssignInput{
		ManagerID:  managerID,
		UserID:     req.UserID,
		TrainingID: req.TrainingID,
		SessionID:  req.SessionID,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": enrollment})
}

// GET /api/enrollments/:id
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	enrollment, err := h.enrollments.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollment": enrollment})
}

// GET /api/enrollments/user/:user_id
func (h *EnrollmentHandler) ListForUser(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	enrollments, err := h.enrollments.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollments": enrollments})
}

// PUT /api/enrollments/:id/status
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status learning.EnrollmentStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	enrollment, err := h.enrollments.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollment": enrollment})
}
