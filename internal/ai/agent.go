package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

const (
	IntentEmergency   = "emergency"
	IntentSchedule    = "schedule_service"
	IntentPricing     = "pricing_inquiry"
	IntentRepair      = "repair_needed"
	IntentMaintenance = "maintenance_inquiry"
	IntentHours       = "business_hours"
	IntentGeneral     = "general_inquiry"
	IntentError       = "error"
)

const ActionShowSchedulingForm = "show_scheduling_form"

// intentKeywords is checked in order; the first bucket with a match wins.
var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{IntentEmergency, []string{"emergency", "urgent"}},
	{IntentSchedule, []string{"schedule", "appointment"}},
	{IntentPricing, []string{"price", "cost"}},
	{IntentRepair, []string{"not working", "broken"}},
	{IntentMaintenance, []string{"maintenance"}},
	{IntentHours, []string{"hours", "open"}},
}

// DetectIntent labels a message by case-insensitive substring match.
func DetectIntent(text string) string {
	lower := strings.ToLower(text)
	for _, bucket := range intentKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.intent
			}
		}
	}
	return IntentGeneral
}

var schedulingKeywords = []string{
	"schedule", "appointment", "service call", "repair", "maintenance",
	"installation", "visit", "technician", "book", "set up", "when can", "available",
}

// HasSchedulingIntent matches the trigger keywords against the user text and
// the assistant reply; either side can fire the scheduling form.
func HasSchedulingIntent(userText, reply string) bool {
	combined := strings.ToLower(userText) + " " + strings.ToLower(reply)
	for _, kw := range schedulingKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

type Reply struct {
	Reply  string `json:"reply"`
	Action string `json:"action,omitempty"`
	Intent string `json:"intent"`
}

type Qualification struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Urgency string   `json:"urgency"`
}

func DefaultQualification() Qualification {
	return Qualification{Score: 5, Reasons: []string{"Qualification failed"}, Urgency: "medium"}
}

type ExtractedWorkOrder struct {
	Title       string `json:"title"`
	ServiceType string `json:"service_type"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

const systemPrompt = `You are the virtual assistant for Peak Comfort Heating & Air.
Answer questions about HVAC service, pricing ranges, and business hours
(Mon-Fri 7am-6pm, Sat 8am-2pm). Encourage customers to book a visit when a
problem needs a technician. Keep replies short and friendly.`

const qualifyPrompt = `Rate the following lead conversation. Respond with ONLY a JSON object
{"score": 1-10, "reasons": ["..."], "urgency": "low"|"medium"|"high"} and nothing else.

Conversation:
`

const extractPrompt = `Extract work order fields from the conversation. Respond with ONLY a JSON
object {"title": "...", "service_type": "repair"|"maintenance"|"installation"|"inspection"|"ductwork",
"priority": "low"|"normal"|"high"|"emergency", "description": "..."} and nothing else.

Conversation:
`

// Agent turns free-text chat into replies, intent labels, and structured
// lead/work-order data. Upstream failures never escape: every path returns a
// safe fallback.
type Agent struct {
	Assistant   Assistant
	OfficePhone string
	Logger      zerolog.Logger
}

func (a *Agent) ProcessMessage(ctx context.Context, text string, history []ChatMessage) Reply {
	intent := DetectIntent(text)

	replyText, err := a.Assistant.Ask(ctx, systemPrompt, history, text)
	if err != nil {
		a.Logger.Error().Err(err).Msg("assistant call failed")
		return Reply{Reply: a.fallbackText(err), Intent: IntentError}
	}

	out := Reply{Reply: replyText, Intent: intent}
	if HasSchedulingIntent(text, replyText) {
		out.Action = ActionShowSchedulingForm
	}
	return out
}

func (a *Agent) fallbackText(err error) string {
	var rle RateLimitError
	switch {
	case errors.As(err, &rle):
		return "We're receiving a lot of messages right now. Please try again in a minute, or call us at " + a.OfficePhone + "."
	case errors.Is(err, ErrUnauthorized):
		return "Our chat assistant is temporarily offline. Please call us at " + a.OfficePhone + " and we'll help right away."
	default:
		return "Sorry, I'm having trouble responding right now. Please call us at " + a.OfficePhone + " and we'll get you taken care of."
	}
}

// QualifyLead asks the model to rate the transcript. Any failure, including
// malformed JSON, yields the fixed default rather than an error.
func (a *Agent) QualifyLead(ctx context.Context, transcript string) Qualification {
	raw, err := a.Assistant.Ask(ctx, "", nil, qualifyPrompt+transcript)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("lead qualification call failed")
		return DefaultQualification()
	}
	return ParseQualification(raw)
}

// ParseQualification decodes the strict qualification JSON. Out-of-range
// scores and unknown urgency values count as failures.
func ParseQualification(raw string) Qualification {
	var q Qualification
	if err := json.Unmarshal([]byte(extractJSON(raw)), &q); err != nil {
		return DefaultQualification()
	}
	if q.Score < 1 || q.Score > 10 {
		return DefaultQualification()
	}
	switch q.Urgency {
	case "low", "medium", "high":
	default:
		return DefaultQualification()
	}
	if len(q.Reasons) == 0 {
		q.Reasons = []string{"No rationale provided"}
	}
	return q
}

// ExtractWorkOrderFields pulls structured fields from a transcript. Unlike
// qualification, the caller has its own fallback, so this one returns errors.
func (a *Agent) ExtractWorkOrderFields(ctx context.Context, transcript string) (ExtractedWorkOrder, error) {
	raw, err := a.Assistant.Ask(ctx, "", nil, extractPrompt+transcript)
	if err != nil {
		return ExtractedWorkOrder{}, err
	}
	var out ExtractedWorkOrder
	if err := json.Unmarshal([]byte(extractJSON(raw)), &out); err != nil {
		return ExtractedWorkOrder{}, err
	}
	if strings.TrimSpace(out.Title) == "" {
		return ExtractedWorkOrder{}, errors.New("extraction returned no title")
	}
	return out, nil
}

// extractJSON strips markdown code fences models like to wrap JSON in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(raw, "```")
		raw = strings.TrimSpace(raw)
	}
	if start := strings.Index(raw, "{"); start > 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return raw
}
