package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/http/response"
	"github.com/yungbote/lnd-backend/internal/services"
)

type TrainingHandler struct {
	trainings services.TrainingService
	modules   services.ModuleService
}

func NewTrainingHandler(trainings services.TrainingService, modules services.ModuleService) *TrainingHandler {
	return &TrainingHandler{trainings: trainings, modules: modules}
}

// POST /api/trainings
func (h *TrainingHandler) Create(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Title              string   `json:"title" binding:"required"`
		Description        string   `json:"description"`
		Category           string   `json:"category"`
		DurationHours      float64  `json:"duration_hours"`
		MaxParticipants    int      `json:"max_participants"`
		IsMandatory        bool     `json:"is_mandatory"`
		RequiresApproval   bool     `json:"requires_approval"`
		Prerequisites      []string `json:"prerequisites"`
		LearningObjectives []string `json:"learning_objectives"`
		MaterialsURL       string   `json:"materials_url"`
	}
	if !bindJSON(c, &req) {
		return
	}
	training, err := h.trainings.Create(c.Request.Context(), services.CreateTrainingInput{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		DurationHours:      req.DurationHours,
		MaxParticipants:    req.MaxParticipants,
		IsMandatory:        req.IsMandatory,
		RequiresApproval:   req.RequiresApproval,
		Prerequisites:      req.Prerequisites,
		LearningObjectives: req.LearningObjectives,
		MaterialsURL:       req.MaterialsURL,
		CreatedByID:        &caller,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"training": training})
}

// GET /api/trainings/:id
func (h *TrainingHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	training, err := h.trainings.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"training": training})
}

// GET /api/trainings/pending
func (h *TrainingHandler) ListPending(c *gin.Context) {
	offset, limit := page(c)
	trainings, err := h.trainings.ListPending(c.Request.Context(), offset, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"trainings": trainings, "offset": offset, "limit": limit})
}

// PUT /api/trainings/:id/submit
func (h *TrainingHandler) Submit(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	training, err := h.trainings.Submit(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"training": training})
}

// PUT /api/trainings/:id/approve
func (h *TrainingHandler) Approve(c *gin.Context) {
	approverID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	training, err := h.trainings.Approve(c.Request.Context(), id, approverID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"training": training})
}

// PUT /api/trainings/:id/reject
func (h *TrainingHandler) Reject(c *gin.Context) {
	approverID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	training, err := h.trainings.Reject(c.Request.Context(), id, approverID, req.Reason)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"training": training})
}

// GET /api/trainings/:id/outline
func (h *TrainingHandler) Outline(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	outline, err := h.modules.Outline(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"modules": outline})
}

// POST /api/trainings/:id/modules
func (h *TrainingHandler) AddModule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title" binding:"required"`
		Order int    `json:"order"`
	}
	if !bindJSON(c, &req) {
		return
	}
	module, err := h.modules.AddModule(c.Request.Context(), id, req.Title, req.Order)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"module": module})
}

// POST /api/modules/:id/lessons
func (h *TrainingHandler) AddLesson(c *gin.Context) {
	moduleID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title           string              `json:"title" binding:"required"`
		Type            learning.LessonType `json:"type"`
		ContentURL      string              `json:"content_url"`
		ContentText     string              `json:"content_text"`
		DurationMinutes int                 `json:"duration_minutes"`
		Order           int                 `json:"order"`
		Questions       json.RawMessage     `json:"questions"`
	}
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.modules.AddLesson(c.Request.Context(), services.AddLessonInput{
		ModuleID:        moduleID,
		Title:           req.Title,
		Type:            req.Type,
		ContentURL:      req.ContentURL,
		ContentText:     req.ContentText,
		DurationMinutes: req.DurationMinutes,
		Order:           req.Order,
		Questions:       datatypes.JSON(req.Questions),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

// POST /api/sessions
func (h *TrainingHandler) CreateSession(c *gin.Context) {
	var req struct {
		TrainingID      uuid.UUID `json:"training_id" binding:"required"`
		SessionDate     string    `json:"session_date" binding:"required"`
		StartTime       string    `json:"start_time" binding:"required"`
		EndTime         string    `json:"end_time" binding:"required"`
		Location        string    `json:"location"`
		InstructorName  string    `json:"instructor_name"`
		MaxParticipants int       `json:"max_participants"`
	}
	if !bindJSON(c, &req) {
		return
	}
	day, err := time.Parse(dateLayout, req.SessionDate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_date", err)
		return
	}
	session, err := h.trainings.CreateSession(c.Request.Context(), services.CreateSessionInput{
		TrainingID:      req.TrainingID,
		SessionDate:     day,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		InstructorName:  req.InstructorName,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

// GET /api/sessions/training/:id
func (h *TrainingHandler) ListSessions(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	sessions, err := h.trainings.ListSessions(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}
