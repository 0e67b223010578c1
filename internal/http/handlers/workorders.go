package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peakcomfort/backend/internal/models"
	"github.com/peakcomfort/backend/internal/service"
)

type WorkOrderCreateRequest struct {
	CustomerID         string     `json:"customer_id" validate:"required"`
	TechnicianID       *string    `json:"technician_id"`
	Title              string     `json:"title" validate:"required"`
	ServiceType        string     `json:"service_type" validate:"required,oneof=repair maintenance installation inspection ductwork"`
	Priority           string     `json:"priority" validate:"omitempty,oneof=low normal high emergency"`
	ServiceDate        time.Time  `json:"service_date" validate:"required"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
	TimePreference     string     `json:"time_preference" validate:"omitempty,oneof=morning afternoon anytime"`
	Description        string     `json:"description" validate:"required"`
	Notes              string     `json:"notes"`
}

type WorkOrderUpdateRequest struct {
	Title          string `json:"title" validate:"required"`
	ServiceType    string `json:"service_type" validate:"required,oneof=repair maintenance installation inspection ductwork"`
	Priority       string `json:"priority" validate:"required,oneof=low normal high emergency"`
	TimePreference string `json:"time_preference" validate:"omitempty,oneof=morning afternoon anytime"`
	Description    string `json:"description" validate:"required"`
	Notes          string `json:"notes"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending scheduled in-progress completed cancelled"`
}

type AssignRequest struct {
	TechnicianID *string `json:"technician_id"`
}

type RescheduleRequest struct {
	ServiceDate        time.Time  `json:"service_date" validate:"required"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
}

func (h *Handler) WorkOrdersList(c *gin.Context) {
	status := c.Query("status")
	customerID := c.Query("customer_id")
	technicianID := c.Query("technician_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListWorkOrders(c.Request.Context(), status, customerID, technicianID, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list work orders", err.Error())
		return
	}
	if items == nil {
		items = []models.WorkOrder{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) WorkOrderDetails(c *gin.Context) {
	order, err := h.WorkOrders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// @Summary Create work order
// @Tags work-orders
// @Accept json
// @Produce json
// @Success 201 {object} models.WorkOrder
// @Failure 400 {object} map[string]any
// @Router /api/work-orders [post]
func (h *Handler) WorkOrderCreate(c *gin.Context) {
	var req WorkOrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	order, err := h.WorkOrders.Create(c.Request.Context(), service.CreateWorkOrderInput{
		CustomerID:         req.CustomerID,
		TechnicianID:       req.TechnicianID,
		Title:              req.Title,
		ServiceType:        req.ServiceType,
		Priority:           req.Priority,
		ServiceDate:        req.ServiceDate,
		ScheduledStartTime: req.ScheduledStartTime,
		ScheduledEndTime:   req.ScheduledEndTime,
		TimePreference:     req.TimePreference,
		Description:        req.Description,
		Notes:              req.Notes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) WorkOrderUpdate(c *gin.Context) {
	var req WorkOrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	order, err := h.WorkOrders.UpdateDetails(c.Request.Context(), models.WorkOrder{
		ID:             c.Param("id"),
		Title:          req.Title,
		ServiceType:    req.ServiceType,
		Priority:       req.Priority,
		TimePreference: req.TimePreference,
		Description:    req.Description,
		Notes:          req.Notes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// @Summary Update work order status
// @Tags work-orders
// @Accept json
// @Produce json
// @Success 200 {object} models.WorkOrder
// @Failure 409 {object} map[string]any
// @Router /api/work-orders/{id}/status [patch]
func (h *Handler) WorkOrderStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	order, err := h.WorkOrders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) WorkOrderAssign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}

	order, err := h.WorkOrders.AssignTechnician(c.Request.Context(), c.Param("id"), req.TechnicianID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) WorkOrderReschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	order, err := h.WorkOrders.Reschedule(c.Request.Context(), c.Param("id"), req.ServiceDate, req.ScheduledStartTime, req.ScheduledEndTime)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) WorkOrderDelete(c *gin.Context) {
	if err := h.WorkOrders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
