package db

import (
	"context"

	"github.com/peakcomfort/backend/internal/models"
)

func (s *Store) InsertTechnician(ctx context.Context, t models.Technician) error {
	_, err := s.Pool.Exec(ctx, `INSERT INTO technicians (id, name, active) VALUES ($1,$2,$3)`, t.ID, t.Name, t.Active)
	return err
}

func (s *Store) UpdateTechnician(ctx context.Context, t models.Technician) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `UPDATE technicians SET name=$2, active=$3 WHERE id=$1`, t.ID, t.Name, t.Active)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) GetTechnician(ctx context.Context, id string) (models.Technician, error) {
	var t models.Technician
	err := s.Pool.QueryRow(ctx, `SELECT id, name, active FROM technicians WHERE id=$1`, id).
		Scan(&t.ID, &t.Name, &t.Active)
	return t, err
}

func (s *Store) ListTechnicians(ctx context.Context, activeOnly bool) ([]models.Technician, error) {
	query := `SELECT id, name, active FROM technicians`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Technician
	for rows.Next() {
		var t models.Technician
		if err := rows.Scan(&t.ID, &t.Name, &t.Active); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
