package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lnd-backend/internal/http/response"
	"github.com/yungbote/lnd-backend/internal/services"
)

type CompletionHandler struct {
	completions services.CompletionService
}

func NewCompletionHandler(completions services.CompletionService) *CompletionHandler {
	return &CompletionHandler{completions: completions}
}

// POST /api/completions/calculate/:enrollment_id
func (h *CompletionHandler) Calculate(c *gin.Context) {
	enrollmentID, ok := uuidParam(c, "enrollment_id")
	if !ok {
		return
	}
	var req struct {
		AssessmentScore *float64 `json:"assessment_score"`
		Passed          *bool    `json:"passed"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	completion, err := h.completions.Calculate(c.Request.Context(), services.CalculateCompletionInput{
		EnrollmentID:    enrollmentID,
		AssessmentScore: req.AssessmentScore,
		Passed:          req.Passed,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"completion": completion})
}

// GET /api/completions/:id
func (h *CompletionHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	completion, err := h.completions.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"completion": completion})
}

// GET /api/completions/user/:user_id
func (h *CompletionHandler) ListForUser(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	completions, err := h.completions.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"completions": completions})
}

// PUT /api/completions/:id/issue-certificate
func (h *CompletionHandler) IssueCertificate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		CertificateURL string `json:"certificate_url"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	completion, err := h.completions.IssueCertificate(c.Request.Context(), id, req.CertificateURL)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"completion": completion})
}
