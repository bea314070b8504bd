// Package department manages the org's department records. Teams reference
// departments by id, so these rows exist mostly to be pointed at.
package department

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Department is an organizational unit that teams belong to.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store provides database operations for departments.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new department store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanDepartment(row pgx.Row) (*Department, error) {
	d := &Department{}
	if err := row.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts a new department.
func (s *Store) Create(ctx context.Context, name string) (*Department, error) {
	d, err := scanDepartment(s.pool.QueryRow(ctx,
		`INSERT INTO departments (name) VALUES ($1)
		 RETURNING id, name, created_at`, name))
	if err != nil {
		return nil, fmt.Errorf("creating department: %w", err)
	}
	return d, nil
}

// GetByID retrieves a department by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Department, error) {
	d, err := scanDepartment(s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM departments WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting department by id: %w", err)
	}
	return d, nil
}

// List returns all departments sorted by name.
func (s *Store) List(ctx context.Context) ([]*Department, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}
	defer rows.Close()

	var out []*Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning department row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Rename updates a department's name.
func (s *Store) Rename(ctx context.Context, id, name string) (*Department, error) {
	d, err := scanDepartment(s.pool.QueryRow(ctx,
		`UPDATE departments SET name = $1 WHERE id = $2
		 RETURNING id, name, created_at`, name, id))
	if err != nil {
		return nil, fmt.Errorf("renaming department: %w", err)
	}
	return d, nil
}

// Delete removes a department. Fails while teams still reference it.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting department: %w", err)
	}
	return nil
}
