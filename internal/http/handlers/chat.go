package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peakcomfort/backend/internal/service"
)

type ChatMessageRequest struct {
	ConversationID string  `json:"conversation_id"`
	CustomerID     *string `json:"customer_id"`
	Message        string  `json:"message" validate:"required"`
}

type chatFormPayload struct {
	Title          string     `json:"title"`
	ServiceType    string     `json:"service_type"`
	Priority       string     `json:"priority" validate:"omitempty,oneof=low normal high emergency urgent"`
	ServiceDate    *time.Time `json:"service_date"`
	TimePreference string     `json:"time_preference" validate:"omitempty,oneof=morning afternoon anytime"`
	Description    string     `json:"description"`
}

type ChatWorkOrderRequest struct {
	ConversationID string           `json:"conversation_id" validate:"required"`
	Name           string           `json:"name" validate:"required"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email" validate:"omitempty,email"`
	Street         string           `json:"street"`
	City           string           `json:"city"`
	State          string           `json:"state"`
	Zip            string           `json:"zip"`
	Form           *chatFormPayload `json:"form"`
}

// @Summary Send a chat message
// @Tags chat
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/chat/message [post]
func (h *Handler) ChatMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	reply, err := h.Chat.HandleMessage(c.Request.Context(), req.ConversationID, req.CustomerID, req.Message)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation_id": req.ConversationID,
		"reply":           reply.Reply,
		"action":          reply.Action,
		"intent":          reply.Intent,
	})
}

func (h *Handler) ChatWorkOrder(c *gin.Context) {
	var req ChatWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	in := service.ChatWorkOrderInput{
		ConversationID: req.ConversationID,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Street:         req.Street,
		City:           req.City,
		State:          req.State,
		Zip:            req.Zip,
	}
	if req.Form != nil {
		in.Form = &service.WorkOrderForm{
			Title:          req.Form.Title,
			ServiceType:    req.Form.ServiceType,
			Priority:       req.Form.Priority,
			ServiceDate:    req.Form.ServiceDate,
			TimePreference: req.Form.TimePreference,
			Description:    req.Form.Description,
		}
	}

	result, err := h.Chat.CreateWorkOrderFromChat(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
