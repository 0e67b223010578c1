package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/peakcomfort/backend/internal/config"
	"github.com/peakcomfort/backend/internal/db"
	"github.com/peakcomfort/backend/internal/service"
)

type Handler struct {
	Store        *db.Store
	WorkOrders   *service.WorkOrderService
	Leads        *service.LeadService
	Calendar     *service.CalendarService
	Chat         *service.ChatService
	GeocodeBatch *service.GeocodeBatchService
	Validator    *validator.Validate
	Logger       zerolog.Logger
	Config       config.Config
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// writeServiceError maps the service error taxonomy onto HTTP responses.
func writeServiceError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", ve.Fields)
		return
	}
	var ite *service.InvalidTransitionError
	if errors.As(err, &ite) {
		writeError(c, http.StatusConflict, "INVALID_TRANSITION", ite.Error(), gin.H{
			"from": ite.From,
			"to":   ite.To,
		})
		return
	}
	var ce *service.ConflictError
	if errors.As(err, &ce) {
		writeError(c, http.StatusConflict, "CONFLICT", ce.Error(), nil)
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}
	writeError(c, http.StatusInternalServerError, "DB_ERROR", "Operation failed", err.Error())
}
