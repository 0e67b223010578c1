package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/peakcomfort/backend/internal/models"
)

type TechnicianRequest struct {
	Name   string `json:"name" validate:"required"`
	Active *bool  `json:"active"`
}

func (h *Handler) TechniciansList(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	items, err := h.Store.ListTechnicians(c.Request.Context(), activeOnly)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list technicians", err.Error())
		return
	}
	if items == nil {
		items = []models.Technician{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) TechnicianCreate(c *gin.Context) {
	var req TechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	t := models.Technician{ID: uuid.NewString(), Name: req.Name, Active: true}
	if req.Active != nil {
		t.Active = *req.Active
	}
	if err := h.Store.InsertTechnician(c.Request.Context(), t); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create technician", err.Error())
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) TechnicianUpdate(c *gin.Context) {
	var req TechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	existing, err := h.Store.GetTechnician(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Technician not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load technician", err.Error())
		return
	}

	existing.Name = req.Name
	if req.Active != nil {
		existing.Active = *req.Active
	}
	if _, err := h.Store.UpdateTechnician(c.Request.Context(), existing); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update technician", err.Error())
		return
	}
	c.JSON(http.StatusOK, existing)
}

// Deactivating instead of deleting keeps historical work orders pointing at
// a real row.
func (h *Handler) TechnicianDeactivate(c *gin.Context) {
	existing, err := h.Store.GetTechnician(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Technician not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load technician", err.Error())
		return
	}
	existing.Active = false
	if _, err := h.Store.UpdateTechnician(c.Request.Context(), existing); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update technician", err.Error())
		return
	}
	c.JSON(http.StatusOK, existing)
}
