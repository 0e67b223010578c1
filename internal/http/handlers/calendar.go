package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peakcomfort/backend/internal/service"
)

// @Summary Calendar events in a window
// @Tags calendar
// @Produce json
// @Param from query string true "RFC3339 or YYYY-MM-DD"
// @Param to query string true "RFC3339 or YYYY-MM-DD"
// @Success 200 {array} service.CalendarEvent
// @Router /api/calendar [get]
func (h *Handler) CalendarEvents(c *gin.Context) {
	from, ok := parseDay(c.Query("from"))
	if !ok {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid or missing from parameter", nil)
		return
	}
	to, ok := parseDay(c.Query("to"))
	if !ok {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid or missing to parameter", nil)
		return
	}
	if to.Before(from) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "to must not precede from", nil)
		return
	}

	events, err := h.Calendar.Events(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load calendar", err.Error())
		return
	}
	if events == nil {
		events = []service.CalendarEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
