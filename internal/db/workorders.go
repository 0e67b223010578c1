package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/peakcomfort/backend/internal/models"
)

const workOrderColumns = `id, work_order_number, customer_id, technician_id, title, service_type, priority, status,
	service_date, scheduled_start_time, scheduled_end_time, time_preference, description, notes,
	created_at, updated_at, started_at, completed_at`

func (s *Store) InsertWorkOrder(ctx context.Context, w models.WorkOrder) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO work_orders (`+workOrderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`, w.ID, w.WorkOrderNumber, w.CustomerID, w.TechnicianID, w.Title, w.ServiceType, w.Priority, w.Status,
		w.ServiceDate, w.ScheduledStartTime, w.ScheduledEndTime, w.TimePreference, w.Description, w.Notes,
		w.CreatedAt, w.UpdatedAt, w.StartedAt, w.CompletedAt)
	return err
}

func (s *Store) GetWorkOrder(ctx context.Context, id string) (models.WorkOrder, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id=$1`, id)
	return scanWorkOrder(row)
}

func (s *Store) ListWorkOrders(ctx context.Context, status, customerID, technicianID string, limit, offset int) ([]models.WorkOrder, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + workOrderColumns + ` FROM work_orders`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if customerID != "" {
		args = append(args, customerID)
		wheres = append(wheres, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if technicianID != "" {
		args = append(args, technicianID)
		wheres = append(wheres, fmt.Sprintf("technician_id = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY service_date DESC, created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkOrder
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ListWorkOrdersBetween returns work orders whose service_date falls in
// [from, to] for calendar rendering.
func (s *Store) ListWorkOrdersBetween(ctx context.Context, from, to time.Time) ([]models.WorkOrder, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+workOrderColumns+` FROM work_orders
		WHERE service_date >= $1 AND service_date <= $2
		ORDER BY service_date ASC, scheduled_start_time ASC NULLS LAST
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkOrder
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) UpdateWorkOrderStatus(ctx context.Context, w models.WorkOrder) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE work_orders SET status=$2, updated_at=$3, started_at=$4, completed_at=$5 WHERE id=$1
	`, w.ID, w.Status, w.UpdatedAt, w.StartedAt, w.CompletedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) UpdateWorkOrderSchedule(ctx context.Context, id string, serviceDate time.Time, start, end *time.Time, updatedAt time.Time) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE work_orders SET service_date=$2, scheduled_start_time=$3, scheduled_end_time=$4, updated_at=$5 WHERE id=$1
	`, id, serviceDate, start, end, updatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) UpdateWorkOrderTechnician(ctx context.Context, id string, technicianID *string, updatedAt time.Time) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE work_orders SET technician_id=$2, updated_at=$3 WHERE id=$1
	`, id, technicianID, updatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) UpdateWorkOrderDetails(ctx context.Context, w models.WorkOrder) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE work_orders SET title=$2, service_type=$3, priority=$4, time_preference=$5,
			description=$6, notes=$7, updated_at=$8
		WHERE id=$1
	`, w.ID, w.Title, w.ServiceType, w.Priority, w.TimePreference, w.Description, w.Notes, w.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) DeleteWorkOrder(ctx context.Context, id string) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM work_orders WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountWorkOrdersOnDate feeds the daily sequence in work order numbers.
func (s *Store) CountWorkOrdersOnDate(ctx context.Context, day time.Time) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM work_orders WHERE created_at::date = $1::date`, day).Scan(&n)
	return n, err
}

func (s *Store) CountWorkOrdersByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.Pool.Query(ctx, `SELECT status, COUNT(*) FROM work_orders GROUP BY status`)
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

func scanWorkOrder(row rowScanner) (models.WorkOrder, error) {
	var w models.WorkOrder
	if err := row.Scan(&w.ID, &w.WorkOrderNumber, &w.CustomerID, &w.TechnicianID, &w.Title, &w.ServiceType,
		&w.Priority, &w.Status, &w.ServiceDate, &w.ScheduledStartTime, &w.ScheduledEndTime, &w.TimePreference,
		&w.Description, &w.Notes, &w.CreatedAt, &w.UpdatedAt, &w.StartedAt, &w.CompletedAt); err != nil {
		return models.WorkOrder{}, err
	}
	return w, nil
}
