package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/peakcomfort/backend/internal/models"
)

const leadColumns = `id, name, phone, email, street, city, state, zip, service_type, description,
	priority, source, status, workflow_stage, customer_id, created_at, updated_at`

func (s *Store) InsertEstimateRequest(ctx context.Context, r models.EstimateRequest) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO estimate_requests (`+leadColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, r.ID, r.Name, r.Phone, r.Email, r.Street, r.City, r.State, r.Zip, r.ServiceType, r.Description,
		r.Priority, r.Source, r.Status, r.WorkflowStage, r.CustomerID, r.CreatedAt, r.UpdatedAt)
	return err
}

func (s *Store) GetEstimateRequest(ctx context.Context, id string) (models.EstimateRequest, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM estimate_requests WHERE id=$1`, id)
	return scanEstimateRequest(row)
}

func (s *Store) ListEstimateRequests(ctx context.Context, status, source string, limit, offset int) ([]models.EstimateRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + leadColumns + ` FROM estimate_requests`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if source != "" {
		args = append(args, source)
		wheres = append(wheres, fmt.Sprintf("source = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EstimateRequest
	for rows.Next() {
		r, err := scanEstimateRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateEstimateRequestStatus(ctx context.Context, r models.EstimateRequest) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE estimate_requests SET status=$2, workflow_stage=$3, customer_id=$4, updated_at=$5 WHERE id=$1
	`, r.ID, r.Status, r.WorkflowStage, r.CustomerID, r.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) CountEstimateRequestsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.Pool.Query(ctx, `SELECT status, COUNT(*) FROM estimate_requests GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func scanEstimateRequest(row rowScanner) (models.EstimateRequest, error) {
	var r models.EstimateRequest
	if err := row.Scan(&r.ID, &r.Name, &r.Phone, &r.Email, &r.Street, &r.City, &r.State, &r.Zip,
		&r.ServiceType, &r.Description, &r.Priority, &r.Source, &r.Status, &r.WorkflowStage,
		&r.CustomerID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return models.EstimateRequest{}, err
	}
	return r, nil
}
