package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/peakcomfort/backend/internal/db"
	"github.com/peakcomfort/backend/internal/models"
)

// DeterminePriority tags repair-type estimate requests as urgent. Everything
// else waits its turn.
func DeterminePriority(serviceType string) string {
	switch strings.ToLower(strings.TrimSpace(serviceType)) {
	case "ac-repair", "heating-repair":
		return models.LeadPriorityUrgent
	default:
		return models.LeadPriorityNormal
	}
}

// LeadScore rates an inbound lead 1-10: base 5, +3 urgent, +2 installation
// work, +1 AI chat source, capped at 10.
func LeadScore(serviceType, priority, source string) int {
	score := 5
	if priority == models.LeadPriorityUrgent {
		score += 3
	}
	if strings.Contains(strings.ToLower(serviceType), "installation") {
		score += 2
	}
	if source == models.SourceAIChat {
		score += 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// MapLeadPriority moves the estimate-request vocabulary onto the work order
// priority enum. Urgent maps to high; emergency is reserved for explicit
// emergency intent from the chat flow.
func MapLeadPriority(leadPriority string) string {
	if leadPriority == models.LeadPriorityUrgent {
		return models.PriorityHigh
	}
	return models.PriorityNormal
}

// NormalizePriority folds loose priority strings from forms and AI extraction
// onto the work order enum. "urgent" and "medium" are folded like the
// estimate-request vocabulary; anything unrecognized keeps the fallback.
func NormalizePriority(raw, fallback string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.PriorityLow:
		return models.PriorityLow
	case models.PriorityNormal, "medium":
		return models.PriorityNormal
	case models.PriorityHigh, models.LeadPriorityUrgent:
		return models.PriorityHigh
	case models.PriorityEmergency:
		return models.PriorityEmergency
	default:
		return fallback
	}
}

// DefaultServiceDate picks the facility-local calendar date for a new job
// when the caller supplied none: emergency today, high tomorrow, normal or
// medium in three days, anything else in a week.
func DefaultServiceDate(priority string, now time.Time) time.Time {
	days := 7
	switch priority {
	case models.PriorityEmergency:
		days = 0
	case models.PriorityHigh:
		days = 1
	case models.PriorityNormal, "medium":
		days = 3
	}
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// Notifier sends the two best-effort messages that follow a new lead. Both
// are dispatched after the lead is persisted and neither may fail the
// request; implementations swallow and log their own errors.
type Notifier interface {
	NotifyNewLead(lead models.EstimateRequest)
	SendCustomerConfirmation(email, name, serviceType string)
}

type SubmitEstimateInput struct {
	Name        string
	Phone       string
	Email       string
	Street      string
	City        string
	State       string
	Zip         string
	ServiceType string
	Description string
	Source      string
}

type LeadService struct {
	Store      *db.Store
	WorkOrders *WorkOrderService
	Notifier   Notifier
	Logger     zerolog.Logger
}

func (s *LeadService) Submit(ctx context.Context, in SubmitEstimateInput) (models.EstimateRequest, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "required"
	}
	if strings.TrimSpace(in.Phone) == "" && strings.TrimSpace(in.Email) == "" {
		fields["phone"] = "phone or email required"
	}
	if strings.TrimSpace(in.ServiceType) == "" {
		fields["service_type"] = "required"
	}
	if len(fields) > 0 {
		return models.EstimateRequest{}, &ValidationError{Fields: fields}
	}

	source := in.Source
	if source == "" {
		source = models.SourceWebsite
	}
	now := time.Now().UTC()
	lead := models.EstimateRequest{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Street:      in.Street,
		City:        in.City,
		State:       in.State,
		Zip:         in.Zip,
		ServiceType: in.ServiceType,
		Description: in.Description,
		Priority:    DeterminePriority(in.ServiceType),
		Source:      source,
		Status:      models.LeadStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.InsertEstimateRequest(ctx, lead); err != nil {
		return models.EstimateRequest{}, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyNewLead(lead)
		if lead.Email != "" {
			s.Notifier.SendCustomerConfirmation(lead.Email, lead.Name, lead.ServiceType)
		}
	}
	return lead, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (models.EstimateRequest, error) {
	lead, err := s.Store.GetEstimateRequest(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.EstimateRequest{}, ErrNotFound
		}
		return models.EstimateRequest{}, err
	}
	return lead, nil
}

// UpdateStatus is a free overwrite; the lead pipeline carries no transition
// table.
func (s *LeadService) UpdateStatus(ctx context.Context, id, status string) (models.EstimateRequest, error) {
	lead, err := s.Get(ctx, id)
	if err != nil {
		return models.EstimateRequest{}, err
	}
	lead.Status = status
	lead.UpdatedAt = time.Now().UTC()
	if _, err := s.Store.UpdateEstimateRequestStatus(ctx, lead); err != nil {
		return models.EstimateRequest{}, err
	}
	return lead, nil
}

// Promote converts a lead into a customer plus work order. Creation order is
// fixed: customer first, then work order. If the work order write fails the
// customer stays behind; that at-least-once behavior is intentional.
func (s *LeadService) Promote(ctx context.Context, leadID string) (models.Customer, models.WorkOrder, error) {
	lead, err := s.Get(ctx, leadID)
	if err != nil {
		return models.Customer{}, models.WorkOrder{}, err
	}

	customer, err := s.findOrCreateCustomer(ctx, lead)
	if err != nil {
		return models.Customer{}, models.WorkOrder{}, err
	}

	order, err := s.WorkOrders.Create(ctx, CreateWorkOrderInput{
		CustomerID:  customer.ID,
		Title:       lead.ServiceType + " for " + lead.Name,
		ServiceType: normalizeServiceType(lead.ServiceType),
		Priority:    MapLeadPriority(lead.Priority),
		ServiceDate: DefaultServiceDate(MapLeadPriority(lead.Priority), time.Now()),
		Description: lead.Description,
		Notes:       "Promoted from estimate request " + lead.ID,
	})
	if err != nil {
		return models.Customer{}, models.WorkOrder{}, err
	}

	lead.Status = models.LeadStatusScheduled
	lead.WorkflowStage = "converted_to_work_order"
	lead.CustomerID = &customer.ID
	lead.UpdatedAt = time.Now().UTC()
	if _, err := s.Store.UpdateEstimateRequestStatus(ctx, lead); err != nil {
		s.Logger.Error().Err(err).Str("lead_id", lead.ID).Msg("failed to mark lead converted")
	}
	return customer, order, nil
}

func (s *LeadService) findOrCreateCustomer(ctx context.Context, lead models.EstimateRequest) (models.Customer, error) {
	existing, err := s.Store.FindCustomerByContact(ctx, lead.Phone, lead.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Customer{}, err
	}

	now := time.Now().UTC()
	customer := models.Customer{
		ID:        uuid.NewString(),
		Name:      lead.Name,
		Phone:     lead.Phone,
		Email:     lead.Email,
		Street:    lead.Street,
		City:      lead.City,
		State:     lead.State,
		Zip:       lead.Zip,
		Type:      "residential",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.InsertCustomer(ctx, customer); err != nil {
		return models.Customer{}, err
	}
	s.Logger.Info().Str("customer_id", customer.ID).Str("lead_id", lead.ID).Msg("customer created from lead")
	return customer, nil
}

// normalizeServiceType folds web-form values like "ac-repair" onto the work
// order service type enum.
func normalizeServiceType(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(v, "install"):
		return models.ServiceInstallation
	case strings.Contains(v, "maintenance"), strings.Contains(v, "tune-up"):
		return models.ServiceMaintenance
	case strings.Contains(v, "inspect"):
		return models.ServiceInspection
	case strings.Contains(v, "duct"):
		return models.ServiceDuctwork
	case strings.Contains(v, "repair"):
		return models.ServiceRepair
	default:
		return models.ServiceRepair
	}
}
