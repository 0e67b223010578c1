package models

import "time"

// Work order status vocabulary. Terminal states are completed and cancelled.
const (
	StatusPending    = "pending"
	StatusScheduled  = "scheduled"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Work order priority vocabulary. Estimate requests use a narrower
// normal/urgent pair that is mapped onto this set at promotion time.
const (
	PriorityLow       = "low"
	PriorityNormal    = "normal"
	PriorityHigh      = "high"
	PriorityEmergency = "emergency"
)

const (
	ServiceRepair       = "repair"
	ServiceMaintenance  = "maintenance"
	ServiceInstallation = "installation"
	ServiceInspection   = "inspection"
	ServiceDuctwork     = "ductwork"
)

const (
	LeadStatusPending   = "pending"
	LeadStatusContacted = "contacted"
	LeadStatusQuoted    = "quoted"
	LeadStatusScheduled = "scheduled"
	LeadStatusCompleted = "completed"
	LeadStatusCancelled = "cancelled"
)

const (
	LeadPriorityNormal = "normal"
	LeadPriorityUrgent = "urgent"
)

const (
	SourceWebsite = "website"
	SourceAIChat  = "ai_chat"
	SourcePhone   = "phone"
	SourceWalkIn  = "walk_in"
	SourceManual  = "manual"
)

type Equipment struct {
	Brand           string     `json:"brand,omitempty"`
	Model           string     `json:"model,omitempty"`
	SerialNumber    string     `json:"serial_number,omitempty"`
	InstallDate     *time.Time `json:"install_date,omitempty"`
	RefrigerantType string     `json:"refrigerant_type,omitempty"`
	Tonnage         float64    `json:"tonnage,omitempty"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Lat       *float64  `json:"lat"`
	Lng       *float64  `json:"lng"`
	Type      string    `json:"type"` // residential | commercial
	Notes     string    `json:"notes,omitempty"`
	Equipment Equipment `json:"equipment"`
	Photos    []string  `json:"photos,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Technician struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type WorkOrder struct {
	ID                 string     `json:"id"`
	WorkOrderNumber    string     `json:"work_order_number,omitempty"`
	CustomerID         string     `json:"customer_id"`
	TechnicianID       *string    `json:"technician_id"`
	Title              string     `json:"title"`
	ServiceType        string     `json:"service_type"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	ServiceDate        time.Time  `json:"service_date"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
	TimePreference     string     `json:"time_preference,omitempty"` // morning | afternoon | anytime
	Description        string     `json:"description"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
}

type EstimateRequest struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Street        string    `json:"street,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	Zip           string    `json:"zip,omitempty"`
	ServiceType   string    `json:"service_type"`
	Description   string    `json:"description"`
	Priority      string    `json:"priority"` // normal | urgent
	Source        string    `json:"source"`
	Status        string    `json:"status"`
	WorkflowStage string    `json:"workflow_stage,omitempty"`
	CustomerID    *string   `json:"customer_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AIConversation rows are append-only; nothing ever updates one.
type AIConversation struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	CustomerID     *string   `json:"customer_id"`
	UserMessage    string    `json:"user_message"`
	AIResponse     string    `json:"ai_response"`
	Intent         string    `json:"intent"`
	CreatedAt      time.Time `json:"created_at"`
}

type AILead struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id"`
	ConversationID string    `json:"conversation_id"`
	LeadScore      int       `json:"lead_score"` // 1-10
	Urgency        string    `json:"urgency"`    // low | medium | high
	ServiceType    string    `json:"service_type"`
	Status         string    `json:"status"` // new | contacted | converted
	WorkOrderID    *string   `json:"work_order_id"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type AdminNotification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // new_lead | customer_confirmation
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"` // sent | failed
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
