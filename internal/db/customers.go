package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/peakcomfort/backend/internal/models"
)

const customerColumns = `id, name, phone, email, street, city, state, zip, lat, lng, type, notes, equipment, photos, created_at, updated_at`

func (s *Store) InsertCustomer(ctx context.Context, c models.Customer) error {
	equipment, err := json.Marshal(c.Equipment)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`, c.ID, c.Name, c.Phone, c.Email, c.Street, c.City, c.State, c.Zip, c.Lat, c.Lng,
		c.Type, c.Notes, equipment, c.Photos, c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Store) UpdateCustomer(ctx context.Context, c models.Customer) (int64, error) {
	equipment, err := json.Marshal(c.Equipment)
	if err != nil {
		return 0, err
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE customers SET name=$2, phone=$3, email=$4, street=$5, city=$6, state=$7, zip=$8,
			lat=$9, lng=$10, type=$11, notes=$12, equipment=$13, photos=$14, updated_at=$15
		WHERE id=$1
	`, c.ID, c.Name, c.Phone, c.Email, c.Street, c.City, c.State, c.Zip, c.Lat, c.Lng,
		c.Type, c.Notes, equipment, c.Photos, c.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) UpdateCustomerCoordinates(ctx context.Context, id string, lat, lng float64) error {
	_, err := s.Pool.Exec(ctx, `UPDATE customers SET lat=$2, lng=$3, updated_at=NOW() WHERE id=$1`, id, lat, lng)
	return err
}

func (s *Store) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
	return scanCustomer(row)
}

// FindCustomerByContact matches on phone first, then email, mirroring the
// lead-promotion lookup order.
func (s *Store) FindCustomerByContact(ctx context.Context, phone, email string) (models.Customer, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE (phone <> '' AND phone = $1) OR (email <> '' AND LOWER(email) = LOWER($2))
		ORDER BY (phone = $1) DESC, created_at ASC
		LIMIT 1
	`, phone, email)
	return scanCustomer(row)
}

func (s *Store) ListCustomers(ctx context.Context, q, customerType string, limit, offset int) ([]models.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	var wheres []string
	if q != "" {
		args = append(args, "%"+q+"%")
		wheres = append(wheres, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d OR street ILIKE $%d)", len(args), len(args), len(args), len(args)))
	}
	if customerType != "" {
		args = append(args, customerType)
		wheres = append(wheres, fmt.Sprintf("type = $%d", len(args)))
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

	var out []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListCustomersMissingCoordinates(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE (lat IS NULL OR lng IS NULL) AND street <> ''
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCustomer does not cascade: work orders keep their customer_id and the
// delete fails on the foreign key while any exist.
func (s *Store) DeleteCustomer(ctx context.Context, id string) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (models.Customer, error) {
	var c models.Customer
	var equipment []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Street, &c.City, &c.State, &c.Zip,
		&c.Lat, &c.Lng, &c.Type, &c.Notes, &equipment, &c.Photos, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return models.Customer{}, err
	}
	if len(equipment) > 0 {
		if err := json.Unmarshal(equipment, &c.Equipment); err != nil {
			return models.Customer{}, err
		}
	}
	return c, nil
}
