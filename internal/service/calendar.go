package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/peakcomfort/backend/internal/db"
	"github.com/peakcomfort/backend/internal/models"
)

const (
	ColorEmergency  = "#dc2626" // red
	ColorHigh       = "#ea580c" // orange
	ColorTechMike   = "#2563eb" // blue
	ColorTechSarah  = "#db2777" // pink
	ColorScheduled  = "#7c3aed" // purple
	ColorInProgress = "#eab308" // yellow
	ColorCompleted  = "#16a34a" // green
	ColorCancelled  = "#6b7280" // gray
	ColorDefault    = "#0d9488" // teal
)

// EventColor resolves the calendar color for a work order. Priority wins,
// then the two legacy per-technician overrides, then status. Total over all
// inputs; unknown status falls through to the pending teal.
func EventColor(priority, technicianName, status string) string {
	switch priority {
	case models.PriorityEmergency:
		return ColorEmergency
	case models.PriorityHigh:
		return ColorHigh
	}

	tech := strings.ToLower(technicianName)
	if strings.Contains(tech, "mike") {
		return ColorTechMike
	}
	if strings.Contains(tech, "sarah") {
		return ColorTechSarah
	}

	switch status {
	case models.StatusScheduled:
		return ColorScheduled
	case models.StatusInProgress:
		return ColorInProgress
	case models.StatusCompleted:
		return ColorCompleted
	case models.StatusCancelled:
		return ColorCancelled
	default:
		return ColorDefault
	}
}

type CalendarEvent struct {
	ID              string     `json:"id"`
	WorkOrderNumber string     `json:"work_order_number,omitempty"`
	Title           string     `json:"title"`
	CustomerID      string     `json:"customer_id"`
	TechnicianID    *string    `json:"technician_id"`
	TechnicianName  string     `json:"technician_name,omitempty"`
	ServiceType     string     `json:"service_type"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	Date            time.Time  `json:"date"`
	Start           *time.Time `json:"start"`
	End             *time.Time `json:"end"`
	Color           string     `json:"color"`
}

type CalendarService struct {
	Store  *db.Store
	Logger zerolog.Logger
}

// Events returns the work orders in [from, to] as colored calendar events.
func (s *CalendarService) Events(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	orders, err := s.Store.ListWorkOrdersBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	technicians, err := s.Store.ListTechnicians(ctx, false)
	if err != nil {
		return nil, err
	}
	techNames := make(map[string]string, len(technicians))
	for _, t := range technicians {
		techNames[t.ID] = t.Name
	}

	events := make([]CalendarEvent, 0, len(orders))
	for _, w := range orders {
		var techName string
		if w.TechnicianID != nil {
			techName = techNames[*w.TechnicianID]
		}
		events = append(events, CalendarEvent{
			ID:              w.ID,
			WorkOrderNumber: w.WorkOrderNumber,
			Title:           w.Title,
			CustomerID:      w.CustomerID,
			TechnicianID:    w.TechnicianID,
			TechnicianName:  techName,
			ServiceType:     w.ServiceType,
			Priority:        w.Priority,
			Status:          w.Status,
			Date:            w.ServiceDate,
			Start:           w.ScheduledStartTime,
			End:             w.ScheduledEndTime,
			Color:           EventColor(w.Priority, techName, w.Status),
		})
	}
	return events, nil
}
