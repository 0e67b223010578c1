package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/peakcomfort/backend/internal/models"
)

type CustomerRequest struct {
	Name      string           `json:"name" validate:"required"`
	Phone     string           `json:"phone"`
	Email     string           `json:"email" validate:"omitempty,email"`
	Street    string           `json:"street"`
	City      string           `json:"city"`
	State     string           `json:"state"`
	Zip       string           `json:"zip"`
	Type      string           `json:"type" validate:"omitempty,oneof=residential commercial"`
	Notes     string           `json:"notes"`
	Equipment models.Equipment `json:"equipment"`
	Photos    []string         `json:"photos"`
}

func (h *Handler) CustomersList(c *gin.Context) {
	q := c.Query("q")
	customerType := c.Query("type")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListCustomers(c.Request.Context(), q, customerType, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list customers", err.Error())
		return
	}
	if items == nil {
		items = []models.Customer{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) CustomerDetails(c *gin.Context) {
	customer, err := h.Store.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get customer", err.Error())
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) CustomerCreate(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	customerType := req.Type
	if customerType == "" {
		customerType = "residential"
	}
	now := time.Now().UTC()
	customer := models.Customer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Type:      customerType,
		Notes:     req.Notes,
		Equipment: req.Equipment,
		Photos:    req.Photos,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Store.InsertCustomer(c.Request.Context(), customer); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create customer", err.Error())
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) CustomerUpdate(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	customer, err := h.Store.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load customer", err.Error())
		return
	}

	// An address change invalidates old coordinates; the backfill re-fills.
	if customer.Street != req.Street || customer.City != req.City || customer.Zip != req.Zip {
		customer.Lat = nil
		customer.Lng = nil
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Street = req.Street
	customer.City = req.City
	customer.State = req.State
	customer.Zip = req.Zip
	if req.Type != "" {
		customer.Type = req.Type
	}
	customer.Notes = req.Notes
	customer.Equipment = req.Equipment
	customer.Photos = req.Photos
	customer.UpdatedAt = time.Now().UTC()

	if _, err := h.Store.UpdateCustomer(c.Request.Context(), customer); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update customer", err.Error())
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CustomerDelete removes the customer record only. Work orders are not
// cascaded; the delete fails while any reference the customer.
func (h *Handler) CustomerDelete(c *gin.Context) {
	n, err := h.Store.DeleteCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusConflict, "CONFLICT", "Customer has work orders or delete failed", err.Error())
		return
	}
	if n == 0 {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary Backfill customer coordinates
// @Tags geocode
// @Produce json
// @Success 200 {object} service.GeocodeBatchSummary
// @Router /api/customers/geocode [post]
func (h *Handler) CustomersGeocode(c *gin.Context) {
	summary, err := h.GeocodeBatch.Run(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "GEOCODE_ERROR", "Backfill failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}
