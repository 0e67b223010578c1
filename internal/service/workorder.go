package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/peakcomfort/backend/internal/db"
	"github.com/peakcomfort/backend/internal/models"
)

// transitions is the canonical lifecycle table. Completed and cancelled are
// terminal; nothing leaves them.
var transitions = map[string][]string{
	models.StatusPending:    {models.StatusScheduled, models.StatusInProgress, models.StatusCancelled},
	models.StatusScheduled:  {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:  {},
	models.StatusCancelled:  {},
}

func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ApplyTransition mutates the in-memory work order for a status change.
// started_at is set only on the first entry into in-progress and completed_at
// only on the first entry into completed; updated_at always moves forward.
func ApplyTransition(w *models.WorkOrder, newStatus string, now time.Time) error {
	if _, ok := transitions[newStatus]; !ok {
		return newValidationError("status", "unknown status "+newStatus)
	}
	if !CanTransition(w.Status, newStatus) {
		return &InvalidTransitionError{From: w.Status, To: newStatus}
	}
	w.Status = newStatus
	w.UpdatedAt = now
	if newStatus == models.StatusInProgress && w.StartedAt == nil {
		t := now
		w.StartedAt = &t
	}
	if newStatus == models.StatusCompleted && w.CompletedAt == nil {
		t := now
		w.CompletedAt = &t
	}
	return nil
}

// ValidateScheduleWindow rejects reversed or zero-length windows. Overlap with
// the same technician's other jobs is deliberately not checked.
func ValidateScheduleWindow(start, end *time.Time) error {
	if start == nil && end == nil {
		return nil
	}
	if start == nil || end == nil {
		return newValidationError("scheduled_end_time", "start and end must be set together")
	}
	if !end.After(*start) {
		return newValidationError("scheduled_end_time", "end time must be after start time")
	}
	return nil
}

// WorkOrderNumber formats the human-readable job number from the service
// day and a 1-based daily sequence.
func WorkOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("WO-%s-%04d", day.Format("20060102"), seq)
}

type CreateWorkOrderInput struct {
	CustomerID         string
	TechnicianID       *string
	Title              string
	ServiceType        string
	Priority           string
	ServiceDate        time.Time
	ScheduledStartTime *time.Time
	ScheduledEndTime   *time.Time
	TimePreference     string
	Description        string
	Notes              string
}

func (in CreateWorkOrderInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.CustomerID) == "" {
		fields["customer_id"] = "required"
	}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "required"
	}
	if strings.TrimSpace(in.ServiceType) == "" {
		fields["service_type"] = "required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "required"
	}
	if in.ServiceDate.IsZero() {
		fields["service_date"] = "required"
	}
	switch in.Priority {
	case "", models.PriorityLow, models.PriorityNormal, models.PriorityHigh, models.PriorityEmergency:
	default:
		fields["priority"] = "must be one of low, normal, high, emergency"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return ValidateScheduleWindow(in.ScheduledStartTime, in.ScheduledEndTime)
}

type WorkOrderService struct {
	Store  *db.Store
	Logger zerolog.Logger
}

func (s *WorkOrderService) Create(ctx context.Context, in CreateWorkOrderInput) (models.WorkOrder, error) {
	if err := in.validate(); err != nil {
		return models.WorkOrder{}, err
	}

	if _, err := s.Store.GetCustomer(ctx, in.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.WorkOrder{}, fmt.Errorf("customer %s: %w", in.CustomerID, ErrNotFound)
		}
		return models.WorkOrder{}, err
	}
	if in.TechnicianID != nil {
		if _, err := s.Store.GetTechnician(ctx, *in.TechnicianID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.WorkOrder{}, fmt.Errorf("technician %s: %w", *in.TechnicianID, ErrNotFound)
			}
			return models.WorkOrder{}, err
		}
	}

	now := time.Now().UTC()
	seq, err := s.Store.CountWorkOrdersOnDate(ctx, now)
	if err != nil {
		return models.WorkOrder{}, err
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	timePref := in.TimePreference
	if timePref == "" {
		timePref = "anytime"
	}

	w := models.WorkOrder{
		ID:                 uuid.NewString(),
		WorkOrderNumber:    WorkOrderNumber(now, seq+1),
		CustomerID:         in.CustomerID,
		TechnicianID:       in.TechnicianID,
		Title:              strings.TrimSpace(in.Title),
		ServiceType:        in.ServiceType,
		Priority:           priority,
		Status:             models.StatusPending,
		ServiceDate:        in.ServiceDate,
		ScheduledStartTime: in.ScheduledStartTime,
		ScheduledEndTime:   in.ScheduledEndTime,
		TimePreference:     timePref,
		Description:        in.Description,
		Notes:              in.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.Store.InsertWorkOrder(ctx, w); err != nil {
		return models.WorkOrder{}, err
	}
	s.Logger.Info().Str("work_order_id", w.ID).Str("number", w.WorkOrderNumber).Msg("work order created")
	return w, nil
}

func (s *WorkOrderService) Get(ctx context.Context, id string) (models.WorkOrder, error) {
	w, err := s.Store.GetWorkOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.WorkOrder{}, ErrNotFound
		}
		return models.WorkOrder{}, err
	}
	return w, nil
}

func (s *WorkOrderService) UpdateStatus(ctx context.Context, id, newStatus string) (models.WorkOrder, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	if err := ApplyTransition(&w, newStatus, time.Now().UTC()); err != nil {
		var ite *InvalidTransitionError
		if errors.As(err, &ite) {
			s.Logger.Warn().Str("work_order_id", id).Str("from", ite.From).Str("to", ite.To).
				Msg("rejected status transition")
		}
		return models.WorkOrder{}, err
	}
	if _, err := s.Store.UpdateWorkOrderStatus(ctx, w); err != nil {
		return models.WorkOrder{}, err
	}
	return w, nil
}

// AssignTechnician sets or clears the assignment. There is no check against
// the technician's other jobs in the same window.
func (s *WorkOrderService) AssignTechnician(ctx context.Context, id string, technicianID *string) (models.WorkOrder, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	if technicianID != nil {
		if _, err := s.Store.GetTechnician(ctx, *technicianID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.WorkOrder{}, fmt.Errorf("technician %s: %w", *technicianID, ErrNotFound)
			}
			return models.WorkOrder{}, err
		}
	}
	now := time.Now().UTC()
	if _, err := s.Store.UpdateWorkOrderTechnician(ctx, id, technicianID, now); err != nil {
		return models.WorkOrder{}, err
	}
	w.TechnicianID = technicianID
	w.UpdatedAt = now
	return w, nil
}

func (s *WorkOrderService) Reschedule(ctx context.Context, id string, serviceDate time.Time, start, end *time.Time) (models.WorkOrder, error) {
	if serviceDate.IsZero() {
		return models.WorkOrder{}, newValidationError("service_date", "required")
	}
	if err := ValidateScheduleWindow(start, end); err != nil {
		return models.WorkOrder{}, err
	}
	w, err := s.Get(ctx, id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	now := time.Now().UTC()
	if _, err := s.Store.UpdateWorkOrderSchedule(ctx, id, serviceDate, start, end, now); err != nil {
		return models.WorkOrder{}, err
	}
	w.ServiceDate = serviceDate
	w.ScheduledStartTime = start
	w.ScheduledEndTime = end
	w.UpdatedAt = now
	return w, nil
}

func (s *WorkOrderService) UpdateDetails(ctx context.Context, w models.WorkOrder) (models.WorkOrder, error) {
	current, err := s.Get(ctx, w.ID)
	if err != nil {
		return models.WorkOrder{}, err
	}
	current.Title = w.Title
	current.ServiceType = w.ServiceType
	current.Priority = w.Priority
	current.TimePreference = w.TimePreference
	current.Description = w.Description
	current.Notes = w.Notes
	current.UpdatedAt = time.Now().UTC()
	if _, err := s.Store.UpdateWorkOrderDetails(ctx, current); err != nil {
		return models.WorkOrder{}, err
	}
	return current, nil
}

func (s *WorkOrderService) Delete(ctx context.Context, id string) error {
	n, err := s.Store.DeleteWorkOrder(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.Logger.Info().Str("work_order_id", id).Msg("work order deleted")
	return nil
}
