package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lnd-backend/internal/http/response"
	"github.com/yungbote/lnd-backend/internal/services"
)

type BadgeHandler struct {
	badges services.BadgeService
}

func NewBadgeHandler(badges services.BadgeService) *BadgeHandler {
	return &BadgeHandler{badges: badges}
}

// POST /api/badges/calculate/:user_id/:year
func (h *BadgeHandler) Calculate(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	badge, err := h.badges.AwardForYear(c.Request.Context(), userID, year)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"badge": badge})
}

// GET /api/badges/user/:user_id
func (h *BadgeHandler) ListForUser(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	badges, err := h.badges.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"badges": badges})
}

// GET /api/badges/year/:year
func (h *BadgeHandler) ListForYear(c *gin.Context) {
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	offset, limit := page(c)
	badges, err := h.badges.ListForYear(c.Request.Context(), year, offset, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"badges": badges, "offset": offset, "limit": limit})
}

// GET /api/badges/statistics/:user_id
func (h *BadgeHandler) Statistics(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	stats, err := h.badges.Statistics(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}
