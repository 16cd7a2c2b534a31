package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahmadrf/ticketeer/internal/helpers"
	"github.com/ahmadrf/ticketeer/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid filter ID.")
		return
	}

	stats, err := h.dashboard.Stats(c.Request.Context(), scope)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to compute dashboard stats.")
		return
	}

	c.JSON(http.StatusOK, stats)
}
