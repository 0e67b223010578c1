package ai

import (
	"context"
	"strings"

	"github.com/peakcomfort/backend/internal/utils"
)

// MockAssistant answers without an upstream API. Used when no assistant URL
// is configured and in tests.
type MockAssistant struct{}

var mockReplies = []string{
	"Happy to help with that. Would you like to schedule a service call?",
	"One of our technicians can take a look. We can usually book a visit within a day or two.",
	"Thanks for reaching out to Peak Comfort! Can you tell me a bit more about the system?",
}

func (MockAssistant) Ask(ctx context.Context, system string, history []ChatMessage, prompt string) (string, error) {
	if strings.Contains(prompt, `"score"`) {
		return `{"score": 6, "reasons": ["Mock qualification"], "urgency": "medium"}`, nil
	}
	if strings.Contains(prompt, `"service_type"`) {
		return `{"title": "HVAC service request", "service_type": "repair", "priority": "normal", "description": "Captured from chat"}`, nil
	}
	h := utils.HashStringToUint64(prompt)
	return mockReplies[int(h)%len(mockReplies)], nil
}
