package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peakcomfort/backend/internal/ai"
	"github.com/peakcomfort/backend/internal/db"
	"github.com/peakcomfort/backend/internal/models"
)

type ChatService struct {
	Store      *db.Store
	Agent      *ai.Agent
	Leads      *LeadService
	WorkOrders *WorkOrderService
	Logger     zerolog.Logger
}

// HandleMessage runs one chat turn and appends it to the conversation log.
// A failed log write is reported but does not lose the reply.
func (s *ChatService) HandleMessage(ctx context.Context, conversationID string, customerID *string, text string) (ai.Reply, error) {
	if strings.TrimSpace(text) == "" {
		return ai.Reply{}, newValidationError("message", "required")
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	history, err := s.history(ctx, conversationID)
	if err != nil {
		s.Logger.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to load conversation history")
	}

	reply := s.Agent.ProcessMessage(ctx, text, history)

	row := models.AIConversation{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		CustomerID:     customerID,
		UserMessage:    text,
		AIResponse:     reply.Reply,
		Intent:         reply.Intent,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Store.InsertAIConversation(ctx, row); err != nil {
		s.Logger.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to append conversation log")
	}
	return reply, nil
}

func (s *ChatService) history(ctx context.Context, conversationID string) ([]ai.ChatMessage, error) {
	rows, err := s.Store.ListAIConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	var out []ai.ChatMessage
	for _, r := range rows {
		out = append(out, ai.ChatMessage{Role: "user", Content: r.UserMessage})
		out = append(out, ai.ChatMessage{Role: "assistant", Content: r.AIResponse})
	}
	return out, nil
}

// WorkOrderForm carries the fields the scheduling form collected explicitly.
// When present it beats AI extraction.
type WorkOrderForm struct {
	Title          string
	ServiceType    string
	Priority       string
	ServiceDate    *time.Time
	TimePreference string
	Description    string
}

type ChatWorkOrderInput struct {
	ConversationID string
	Name           string
	Phone          string
	Email          string
	Street         string
	City           string
	State          string
	Zip            string
	Form           *WorkOrderForm
}

type ChatWorkOrderResult struct {
	Lead      models.EstimateRequest `json:"lead"`
	AILead    models.AILead          `json:"ai_lead"`
	Customer  models.Customer        `json:"customer"`
	WorkOrder models.WorkOrder       `json:"work_order"`
}

// CreateWorkOrderFromChat synthesizes a lead, customer, AI lead, and work
// order from a conversation. Creation order is fixed (lead, customer,
// work order); a failure partway leaves the earlier records in place.
func (s *ChatService) CreateWorkOrderFromChat(ctx context.Context, in ChatWorkOrderInput) (ChatWorkOrderResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return ChatWorkOrderResult{}, newValidationError("name", "required")
	}
	if strings.TrimSpace(in.Phone) == "" && strings.TrimSpace(in.Email) == "" {
		return ChatWorkOrderResult{}, newValidationError("phone", "phone or email required")
	}

	rows, err := s.Store.ListAIConversation(ctx, in.ConversationID)
	if err != nil {
		s.Logger.Error().Err(err).Str("conversation_id", in.ConversationID).Msg("failed to load transcript")
	}
	transcript := buildTranscript(rows)
	emergencySeen := false
	for _, r := range rows {
		if r.Intent == ai.IntentEmergency {
			emergencySeen = true
			break
		}
	}

	qual := ai.DefaultQualification()
	if transcript != "" {
		qual = s.Agent.QualifyLead(ctx, transcript)
	}

	title, serviceType, priority, description := s.deriveFields(ctx, in.Form, transcript, qual.Urgency, emergencySeen)

	lead, err := s.Leads.Submit(ctx, SubmitEstimateInput{
		Name:        in.Name,
		Phone:       in.Phone,
		Email:       in.Email,
		Street:      in.Street,
		City:        in.City,
		State:       in.State,
		Zip:         in.Zip,
		ServiceType: serviceType,
		Description: description,
		Source:      models.SourceAIChat,
	})
	if err != nil {
		return ChatWorkOrderResult{}, err
	}

	customer, err := s.Leads.findOrCreateCustomer(ctx, lead)
	if err != nil {
		return ChatWorkOrderResult{}, err
	}

	aiLead := models.AILead{
		ID:             uuid.NewString(),
		CustomerID:     customer.ID,
		ConversationID: in.ConversationID,
		LeadScore:      qual.Score,
		Urgency:        qual.Urgency,
		ServiceType:    serviceType,
		Status:         "new",
		Notes:          transcript + "\n\nQualification: " + strings.Join(qual.Reasons, "; "),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Store.InsertAILead(ctx, aiLead); err != nil {
		return ChatWorkOrderResult{}, err
	}

	serviceDate := DefaultServiceDate(priority, time.Now())
	if in.Form != nil && in.Form.ServiceDate != nil {
		serviceDate = *in.Form.ServiceDate
	}
	timePref := "anytime"
	if in.Form != nil && in.Form.TimePreference != "" {
		timePref = in.Form.TimePreference
	}

	order, err := s.WorkOrders.Create(ctx, CreateWorkOrderInput{
		CustomerID:     customer.ID,
		Title:          title,
		ServiceType:    serviceType,
		Priority:       priority,
		ServiceDate:    serviceDate,
		TimePreference: timePref,
		Description:    description,
		Notes:          "Created from AI chat " + in.ConversationID,
	})
	if err != nil {
		return ChatWorkOrderResult{}, err
	}

	if err := s.Store.SetAILeadWorkOrder(ctx, aiLead.ID, order.ID); err != nil {
		s.Logger.Error().Err(err).Str("ai_lead_id", aiLead.ID).Msg("failed to link ai lead to work order")
	} else {
		aiLead.WorkOrderID = &order.ID
		aiLead.Status = "converted"
	}

	lead.Status = models.LeadStatusScheduled
	lead.WorkflowStage = "converted_to_work_order"
	lead.CustomerID = &customer.ID
	lead.UpdatedAt = time.Now().UTC()
	if _, err := s.Store.UpdateEstimateRequestStatus(ctx, lead); err != nil {
		s.Logger.Error().Err(err).Str("lead_id", lead.ID).Msg("failed to mark lead converted")
	}

	return ChatWorkOrderResult{Lead: lead, AILead: aiLead, Customer: customer, WorkOrder: order}, nil
}

// deriveFields prefers the explicit form, falls back to AI extraction, and
// finally to generic defaults. An emergency intent anywhere in the
// conversation forces emergency priority.
func (s *ChatService) deriveFields(ctx context.Context, form *WorkOrderForm, transcript, urgency string, emergencySeen bool) (title, serviceType, priority, description string) {
	title = "HVAC service request"
	serviceType = models.ServiceRepair
	priority = MapUrgency(urgency)
	description = "Service request captured from chat"

	if form != nil {
		if form.Title != "" {
			title = form.Title
		}
		if form.ServiceType != "" {
			serviceType = normalizeServiceType(form.ServiceType)
		}
		if form.Priority != "" {
			priority = NormalizePriority(form.Priority, priority)
		}
		if form.Description != "" {
			description = form.Description
		}
	} else if transcript != "" {
		extracted, err := s.Agent.ExtractWorkOrderFields(ctx, transcript)
		if err != nil {
			s.Logger.Warn().Err(err).Msg("work order extraction failed, using defaults")
		} else {
			title = extracted.Title
			serviceType = normalizeServiceType(extracted.ServiceType)
			if extracted.Priority != "" {
				priority = NormalizePriority(extracted.Priority, priority)
			}
			if extracted.Description != "" {
				description = extracted.Description
			}
		}
	}

	if emergencySeen {
		priority = models.PriorityEmergency
	}
	return title, serviceType, priority, description
}

// MapUrgency folds AI lead urgency onto the work order priority enum.
func MapUrgency(urgency string) string {
	switch urgency {
	case "high":
		return models.PriorityHigh
	case "low":
		return models.PriorityLow
	default:
		return models.PriorityNormal
	}
}

func buildTranscript(rows []models.AIConversation) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString("Customer: ")
		b.WriteString(r.UserMessage)
		b.WriteString("\nAssistant: ")
		b.WriteString(r.AIResponse)
		b.WriteString("\n")
	}
	return b.String()
}
