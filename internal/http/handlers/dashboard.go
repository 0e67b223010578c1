package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// @Summary Dashboard counters and today's schedule
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	orderCounts, err := h.Store.CountWorkOrdersByStatus(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to count work orders", err.Error())
		return
	}
	leadCounts, err := h.Store.CountEstimateRequestsByStatus(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to count estimate requests", err.Error())
		return
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := h.Calendar.Events(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load today's schedule", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"work_orders":       orderCounts,
		"estimate_requests": leadCounts,
		"today":             today,
	})
}
