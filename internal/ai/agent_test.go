package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"This is an EMERGENCY, no heat at all", IntentEmergency},
		{"it's pretty urgent", IntentEmergency},
		// Emergency bucket is checked before repair.
		{"my ac is not working, it's an emergency", IntentEmergency},
		{"I'd like to schedule a visit", IntentSchedule},
		{"can I get an appointment tomorrow", IntentSchedule},
		{"how much does a new furnace cost", IntentPricing},
		{"what's the price for a tune-up", IntentPricing},
		{"the ac is not working", IntentRepair},
		{"thermostat is broken", IntentRepair},
		{"do you do annual maintenance", IntentMaintenance},
		{"what are your hours", IntentHours},
		{"are you open on Saturday", IntentHours},
		{"hello there", IntentGeneral},
		{"", IntentGeneral},
	}
	for _, tc := range cases {
		if got := DetectIntent(tc.text); got != tc.want {
			t.Errorf("DetectIntent(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestHasSchedulingIntent(t *testing.T) {
	if !HasSchedulingIntent("I need a repair", "") {
		t.Fatal("user-side keyword missed")
	}
	if !HasSchedulingIntent("hello", "Would you like to book a technician visit?") {
		t.Fatal("reply-side keyword missed")
	}
	if !HasSchedulingIntent("when can someone come out?", "") {
		t.Fatal("phrase keyword missed")
	}
	if HasSchedulingIntent("what are your hours", "We're open Mon-Fri 7am-6pm.") {
		t.Fatal("false positive on hours question")
	}
}

func TestParseQualification(t *testing.T) {
	q := ParseQualification(`{"score": 8, "reasons": ["no heat"], "urgency": "high"}`)
	if q.Score != 8 || q.Urgency != "high" || len(q.Reasons) != 1 {
		t.Fatalf("unexpected qualification: %+v", q)
	}

	// Code fences are tolerated.
	q = ParseQualification("```json\n{\"score\": 3, \"reasons\": [\"tire kicker\"], \"urgency\": \"low\"}\n```")
	if q.Score != 3 || q.Urgency != "low" {
		t.Fatalf("fenced JSON not parsed: %+v", q)
	}

	// Leading chatter before the object is tolerated.
	q = ParseQualification(`Sure! Here is the rating: {"score": 6, "reasons": ["ok"], "urgency": "medium"}`)
	if q.Score != 6 {
		t.Fatalf("prefixed JSON not parsed: %+v", q)
	}

	def := DefaultQualification()
	for _, raw := range []string{
		"not json at all",
		`{"score": 0, "reasons": ["x"], "urgency": "low"}`,
		`{"score": 11, "reasons": ["x"], "urgency": "low"}`,
		`{"score": 5, "reasons": ["x"], "urgency": "critical"}`,
	} {
		if got := ParseQualification(raw); got.Score != def.Score || got.Urgency != def.Urgency {
			t.Errorf("ParseQualification(%q) = %+v, want default", raw, got)
		}
	}

	q = ParseQualification(`{"score": 7, "urgency": "medium"}`)
	if len(q.Reasons) == 0 {
		t.Fatal("missing reasons should be filled in")
	}
}

type erroringAssistant struct{ err error }

func (e erroringAssistant) Ask(context.Context, string, []ChatMessage, string) (string, error) {
	return "", e.err
}

func TestProcessMessageFallbacks(t *testing.T) {
	phone := "(555) 123-4567"

	agent := &Agent{Assistant: erroringAssistant{err: RateLimitError{RetryAfter: time.Minute}}, OfficePhone: phone, Logger: zerolog.Nop()}
	out := agent.ProcessMessage(context.Background(), "help", nil)
	if out.Intent != IntentError {
		t.Fatalf("expected error intent, got %s", out.Intent)
	}
	if !strings.Contains(out.Reply, "try again in a minute") {
		t.Fatalf("unexpected rate-limit fallback: %q", out.Reply)
	}

	agent.Assistant = erroringAssistant{err: ErrUnauthorized}
	out = agent.ProcessMessage(context.Background(), "help", nil)
	if !strings.Contains(out.Reply, "temporarily offline") || !strings.Contains(out.Reply, phone) {
		t.Fatalf("unexpected auth fallback: %q", out.Reply)
	}

	agent.Assistant = erroringAssistant{err: errors.New("boom")}
	out = agent.ProcessMessage(context.Background(), "help", nil)
	if !strings.Contains(out.Reply, "having trouble") {
		t.Fatalf("unexpected generic fallback: %q", out.Reply)
	}
	if out.Action != "" {
		t.Fatal("fallback reply should not trigger the scheduling form")
	}
}

func TestProcessMessageSchedulingAction(t *testing.T) {
	agent := &Agent{Assistant: MockAssistant{}, OfficePhone: "(555) 123-4567", Logger: zerolog.Nop()}
	out := agent.ProcessMessage(context.Background(), "I want to schedule a repair", nil)
	if out.Action != ActionShowSchedulingForm {
		t.Fatalf("expected scheduling form action, got %q", out.Action)
	}
	if out.Intent != IntentSchedule {
		t.Fatalf("expected schedule intent, got %s", out.Intent)
	}
	if out.Reply == "" {
		t.Fatal("empty reply")
	}
}

func TestQualifyLeadFailureYieldsDefault(t *testing.T) {
	agent := &Agent{Assistant: erroringAssistant{err: errors.New("down")}, Logger: zerolog.Nop()}
	q := agent.QualifyLead(context.Background(), "user: no heat")
	if q.Score != 5 || q.Urgency != "medium" {
		t.Fatalf("expected default qualification, got %+v", q)
	}
}

func TestExtractWorkOrderFields(t *testing.T) {
	agent := &Agent{Assistant: erroringAssistant{err: errors.New("down")}, Logger: zerolog.Nop()}
	if _, err := agent.ExtractWorkOrderFields(context.Background(), "transcript"); err == nil {
		t.Fatal("expected error from failing assistant")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`Here you go: {"a":1} hope that helps`, `{"a":1}`},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
