package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peakcomfort/backend/internal/db"
	"github.com/peakcomfort/backend/internal/models"
)

const (
	KindNewLead              = "new_lead"
	KindCustomerConfirmation = "customer_confirmation"
)

// EmailNotifier posts messages to an HTTP email API. Every send runs in its
// own goroutine after the triggering write has committed; failures are logged
// and recorded, never returned to the caller.
type EmailNotifier struct {
	APIURL     string
	APIKey     string
	From       string
	Recipients []string
	Store      *db.Store
	Logger     zerolog.Logger
	Client     *http.Client
}

type emailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (n *EmailNotifier) NotifyNewLead(lead models.EstimateRequest) {
	subject := fmt.Sprintf("New %s lead: %s", lead.Priority, lead.Name)
	body, err := renderLeadAlert(lead)
	if err != nil {
		n.Logger.Error().Err(err).Msg("failed to render lead alert")
		return
	}
	for _, recipient := range n.Recipients {
		go n.deliver(KindNewLead, recipient, subject, body)
	}
}

func (n *EmailNotifier) SendCustomerConfirmation(email, name, serviceType string) {
	subject := "We received your service request"
	body, err := renderConfirmation(name, serviceType)
	if err != nil {
		n.Logger.Error().Err(err).Msg("failed to render confirmation")
		return
	}
	go n.deliver(KindCustomerConfirmation, email, subject, body)
}

func (n *EmailNotifier) deliver(kind, recipient, subject, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := n.send(ctx, recipient, subject, body)
	record := models.AdminNotification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Recipient: recipient,
		Subject:   subject,
		Status:    "sent",
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		record.Status = "failed"
		record.Error = err.Error()
		n.Logger.Error().Err(err).Str("kind", kind).Str("recipient", recipient).Msg("notification failed")
	}
	if n.Store != nil {
		if err := n.Store.InsertAdminNotification(ctx, record); err != nil {
			n.Logger.Error().Err(err).Str("kind", kind).Msg("failed to record notification")
		}
	}
}

func (n *EmailNotifier) send(ctx context.Context, to, subject, body string) error {
	if n.APIURL == "" {
		return fmt.Errorf("email API not configured")
	}
	// Copy to a local so concurrent deliveries never write the shared field.
	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	payload, _ := json.Marshal(emailPayload{
		From:    n.From,
		To:      to,
		Subject: subject,
		HTML:    body,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.APIURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.APIKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email API error: %s", resp.Status)
	}
	return nil
}
