package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/peakcomfort/backend/internal/ai"
	"github.com/peakcomfort/backend/internal/models"
)

func TestMapUrgency(t *testing.T) {
	cases := []struct {
		urgency, want string
	}{
		{"high", models.PriorityHigh},
		{"low", models.PriorityLow},
		{"medium", models.PriorityNormal},
		{"", models.PriorityNormal},
		{"critical", models.PriorityNormal},
	}
	for _, tc := range cases {
		if got := MapUrgency(tc.urgency); got != tc.want {
			t.Errorf("MapUrgency(%q) = %s, want %s", tc.urgency, got, tc.want)
		}
	}
}

func TestBuildTranscript(t *testing.T) {
	rows := []models.AIConversation{
		{UserMessage: "my ac is broken", AIResponse: "Sorry to hear that. Want to book a visit?"},
		{UserMessage: "yes please", AIResponse: "Great, let me grab some details."},
	}
	transcript := buildTranscript(rows)
	if !strings.Contains(transcript, "Customer: my ac is broken") {
		t.Fatalf("missing customer line:\n%s", transcript)
	}
	if !strings.Contains(transcript, "Assistant: Great, let me grab some details.") {
		t.Fatalf("missing assistant line:\n%s", transcript)
	}
	if idx := strings.Index(transcript, "yes please"); idx < strings.Index(transcript, "my ac is broken") {
		t.Fatal("turns out of order")
	}
}

func TestBuildTranscriptEmpty(t *testing.T) {
	if got := buildTranscript(nil); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}

type stubAssistant struct{ reply string }

func (s stubAssistant) Ask(context.Context, string, []ai.ChatMessage, string) (string, error) {
	return s.reply, nil
}

func TestDeriveFieldsFormWins(t *testing.T) {
	svc := &ChatService{
		Agent:  &ai.Agent{Assistant: stubAssistant{reply: `{"title":"from extraction","service_type":"maintenance","priority":"low","description":"x"}`}, Logger: zerolog.Nop()},
		Logger: zerolog.Nop(),
	}
	form := &WorkOrderForm{Title: "Replace filter", ServiceType: "maintenance", Priority: models.PriorityLow, Description: "Annual tune-up"}
	title, serviceType, priority, description := svc.deriveFields(context.Background(), form, "Customer: hi\n", "high", false)
	if title != "Replace filter" || serviceType != models.ServiceMaintenance || priority != models.PriorityLow || description != "Annual tune-up" {
		t.Fatalf("form fields not preferred: %s %s %s %s", title, serviceType, priority, description)
	}
}

func TestDeriveFieldsExtractionFallback(t *testing.T) {
	svc := &ChatService{
		Agent:  &ai.Agent{Assistant: stubAssistant{reply: `{"title":"Furnace not heating","service_type":"repair","priority":"high","description":"No heat since Tuesday"}`}, Logger: zerolog.Nop()},
		Logger: zerolog.Nop(),
	}
	title, serviceType, priority, _ := svc.deriveFields(context.Background(), nil, "Customer: no heat\n", "medium", false)
	if title != "Furnace not heating" || serviceType != models.ServiceRepair || priority != models.PriorityHigh {
		t.Fatalf("extraction not applied: %s %s %s", title, serviceType, priority)
	}
}

func TestDeriveFieldsFoldsUrgentPriority(t *testing.T) {
	svc := &ChatService{
		Agent:  &ai.Agent{Assistant: stubAssistant{reply: "not json"}, Logger: zerolog.Nop()},
		Logger: zerolog.Nop(),
	}
	form := &WorkOrderForm{Title: "No cooling", ServiceType: "repair", Priority: "urgent", Description: "AC out"}
	_, _, priority, _ := svc.deriveFields(context.Background(), form, "Customer: ac out\n", "low", false)
	if priority != models.PriorityHigh {
		t.Fatalf("form priority %q not folded, got %s", "urgent", priority)
	}

	svc.Agent = &ai.Agent{Assistant: stubAssistant{reply: `{"title":"No cooling","service_type":"repair","priority":"urgent","description":"AC out"}`}, Logger: zerolog.Nop()}
	_, _, priority, _ = svc.deriveFields(context.Background(), nil, "Customer: ac out\n", "low", false)
	if priority != models.PriorityHigh {
		t.Fatalf("extracted priority %q not folded, got %s", "urgent", priority)
	}
}

func TestDeriveFieldsIgnoresUnknownPriority(t *testing.T) {
	svc := &ChatService{
		Agent:  &ai.Agent{Assistant: stubAssistant{reply: "not json"}, Logger: zerolog.Nop()},
		Logger: zerolog.Nop(),
	}
	form := &WorkOrderForm{Title: "Checkup", Priority: "asap!!"}
	_, _, priority, _ := svc.deriveFields(context.Background(), form, "Customer: hi\n", "medium", false)
	if priority != models.PriorityNormal {
		t.Fatalf("unknown priority should keep urgency mapping, got %s", priority)
	}
}

func TestDeriveFieldsDefaultsAndEmergencyOverride(t *testing.T) {
	svc := &ChatService{
		Agent:  &ai.Agent{Assistant: stubAssistant{reply: "not json"}, Logger: zerolog.Nop()},
		Logger: zerolog.Nop(),
	}
	title, serviceType, priority, description := svc.deriveFields(context.Background(), nil, "Customer: hi\n", "medium", true)
	if title != "HVAC service request" || serviceType != models.ServiceRepair || description == "" {
		t.Fatalf("defaults not applied: %s %s %s", title, serviceType, description)
	}
	if priority != models.PriorityEmergency {
		t.Fatalf("emergency intent did not force priority, got %s", priority)
	}
}

func TestNormalizeServiceType(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ac-repair", models.ServiceRepair},
		{"heating-repair", models.ServiceRepair},
		{"repair", models.ServiceRepair},
		{"Installation", models.ServiceInstallation},
		{"maintenance", models.ServiceMaintenance},
		{"inspection", models.ServiceInspection},
		{"ductwork", models.ServiceDuctwork},
		{"something else", models.ServiceRepair},
	}
	for _, tc := range cases {
		if got := normalizeServiceType(tc.in); got != tc.want {
			t.Errorf("normalizeServiceType(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
