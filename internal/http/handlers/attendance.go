package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/http/response"
	"github.com/yungbote/lnd-backend/internal/services"
)

const dateLayout = "2006-01-02"

type AttendanceHandler struct {
	attendance services.AttendanceService
}

func NewAttendanceHandler(attendance services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// POST /api/attendance
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req struct {
		SessionID    uuid.UUID                 `json:"session_id" binding:"required"`
		EnrollmentID uuid.UUID                 `json:"enrollment_id" binding:"required"`
		Date         string                    `json:"date"`
		Status       learning.AttendanceStatus `json:"status"`
		Hours        float64                   `json:"hours_attended"`
		Notes        string                    `json:"notes"`
	}
	if !bindJSON(c, &req) {
		return
	}
	in := services.MarkAttendanceInput{
		SessionID:    req.SessionID,
		EnrollmentID: req.EnrollmentID,
		Status:       req.Status,
		Hours:        req.Hours,
		Notes:        req.Notes,
	}
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_date", err)
			return
		}
		in.Date = d
	}
	rec, err := h.attendance.Mark(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"attendance": rec})
}

// GET /api/attendance/session/:id
func (h *AttendanceHandler) ListBySession(c *gin.Context) {
	sessionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	offset, limit := page(c)
	recs, err := h.attendance.ListBySession(c.Request.Context(), sessionID, offset, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attendance": recs, "offset": offset, "limit": limit})
}

// GET /api/attendance/enrollment/:id
func (h *AttendanceHandler) ListByEnrollment(c *gin.Context) {
	enrollmentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	recs, err := h.attendance.ListByEnrollment(c.Request.Context(), enrollmentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attendance": recs})
}

// PUT /api/attendance/:id
func (h *AttendanceHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status *learning.AttendanceStatus `json:"status"`
		Hours  *float64                   `json:"hours_attended"`
		Notes  *string                    `json:"notes"`
	}
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.attendance.Update(c.Request.Context(), id, services.UpdateAttendanceInput{
		Status: req.Status,
		Hours:  req.Hours,
		Notes:  req.Notes,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attendance": rec})
}
