package handlers

import (
	"net/http"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/dto"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Location godoc
// @Summary      Users and pets per location
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.LocationAnalyticsResponse
// @Router       /admin/analytics/location [get]
func (h *AnalyticsHandler) Location(c *gin.Context) {
	stats, err := h.svc.LocationStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.LocationStatResponse, len(stats))
	for i, s := range stats {
		out[i] = dto.LocationStatResponse{Location: s.Location, Users: s.Users, Pets: s.Pets}
	}
	c.JSON(http.StatusOK, dto.LocationAnalyticsResponse{Items: out})
}
