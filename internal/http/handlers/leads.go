package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/peakcomfort/backend/internal/models"
	"github.com/peakcomfort/backend/internal/service"
)

type EstimateRequestInput struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	ServiceType string `json:"service_type" validate:"required"`
	Description string `json:"description"`
	Source      string `json:"source" validate:"omitempty,oneof=website ai_chat phone walk_in manual"`
}

type LeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending contacted quoted scheduled completed cancelled"`
}

// @Summary Submit estimate request
// @Tags estimates
// @Accept json
// @Produce json
// @Success 201 {object} models.EstimateRequest
// @Failure 400 {object} map[string]any
// @Router /api/estimates [post]
func (h *Handler) EstimateSubmit(c *gin.Context) {
	var req EstimateRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	lead, err := h.Leads.Submit(c.Request.Context(), service.SubmitEstimateInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Street:      req.Street,
		City:        req.City,
		State:       req.State,
		Zip:         req.Zip,
		ServiceType: req.ServiceType,
		Description: req.Description,
		Source:      req.Source,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *Handler) LeadsList(c *gin.Context) {
	status := c.Query("status")
	source := c.Query("source")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListEstimateRequests(c.Request.Context(), status, source, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list estimate requests", err.Error())
		return
	}
	if items == nil {
		items = []models.EstimateRequest{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) LeadDetails(c *gin.Context) {
	lead, err := h.Leads.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *Handler) LeadStatus(c *gin.Context) {
	var req LeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	lead, err := h.Leads.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary Promote lead to work order
// @Tags estimates
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/estimates/{id}/promote [post]
func (h *Handler) LeadPromote(c *gin.Context) {
	customer, order, err := h.Leads.Promote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": customer, "work_order": order})
}

func (h *Handler) AILeadsList(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListAILeads(c.Request.Context(), status, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list AI leads", err.Error())
		return
	}
	if items == nil {
		items = []models.AILead{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}
