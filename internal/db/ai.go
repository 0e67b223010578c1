package db

import (
	"context"
	"fmt"

	"github.com/peakcomfort/backend/internal/models"
)

func (s *Store) InsertAIConversation(ctx context.Context, c models.AIConversation) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO ai_conversations (id, conversation_id, customer_id, user_message, ai_response, intent, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, c.ID, c.ConversationID, c.CustomerID, c.UserMessage, c.AIResponse, c.Intent, c.CreatedAt)
	return err
}

func (s *Store) ListAIConversation(ctx context.Context, conversationID string) ([]models.AIConversation, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, conversation_id, customer_id, user_message, ai_response, intent, created_at
		FROM ai_conversations WHERE conversation_id=$1 ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AIConversation
	for rows.Next() {
		var c models.AIConversation
		if err := rows.Scan(&c.ID, &c.ConversationID, &c.CustomerID, &c.UserMessage, &c.AIResponse, &c.Intent, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) InsertAILead(ctx context.Context, l models.AILead) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO ai_leads (id, customer_id, conversation_id, lead_score, urgency, service_type, status, work_order_id, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, l.ID, l.CustomerID, l.ConversationID, l.LeadScore, l.Urgency, l.ServiceType, l.Status, l.WorkOrderID, l.Notes, l.CreatedAt)
	return err
}

// SetAILeadWorkOrder records the promotion back-reference. It is written once
// and never cleared.
func (s *Store) SetAILeadWorkOrder(ctx context.Context, id, workOrderID string) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE ai_leads SET work_order_id=$2, status='converted' WHERE id=$1 AND work_order_id IS NULL
	`, id, workOrderID)
	return err
}

func (s *Store) ListAILeads(ctx context.Context, status string, limit, offset int) ([]models.AILead, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, customer_id, conversation_id, lead_score, urgency, service_type, status, work_order_id, notes, created_at FROM ai_leads`
	var args []any
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY created_at DESC LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AILead
	for rows.Next() {
		var l models.AILead
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.ConversationID, &l.LeadScore, &l.Urgency, &l.ServiceType, &l.Status, &l.WorkOrderID, &l.Notes, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) InsertAdminNotification(ctx context.Context, n models.AdminNotification) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO admin_notifications (id, kind, recipient, subject, status, error, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, n.ID, n.Kind, n.Recipient, n.Subject, n.Status, n.Error, n.CreatedAt)
	return err
}
