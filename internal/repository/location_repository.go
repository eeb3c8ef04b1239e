package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinefront/ticketing/internal/model"
)

// ErrLocationNotFound is returned when a location lookup yields no rows.
var ErrLocationNotFound = errors.New("location not found")

// LocationRepo provides CRUD operations for venues.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo returns a new LocationRepo bound to the given database.
func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

const locationColumns = `id, name, city, address, created_at, updated_at`

func scanLocation(row interface{ Scan(...any) error }) (model.Location, error) {
	var l model.Location
	err := row.Scan(&l.ID, &l.Name, &l.City, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// List returns all locations ordered by city then name.
func (r *LocationRepo) List(ctx context.Context) ([]model.Location, error) {
	const q = `SELECT ` + locationColumns + ` FROM locations ORDER BY city, name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// GetByID returns the location with the given id or ErrLocationNotFound.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	const q = `SELECT ` + locationColumns + ` FROM locations WHERE id = ?`
	l, err := scanLocation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Create inserts a new location and populates the generated id and
// timestamps on the record.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
	const q = `INSERT INTO locations (name, city, address) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, l.Name, l.City, l.Address)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM locations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, l.ID).Scan(&l.CreatedAt, &l.UpdatedAt)
}

// Update rewrites the location's fields. Returns ErrLocationNotFound when
// no row matches.
func (r *LocationRepo) Update(ctx context.Context, l *model.Location) error {
	const q = `UPDATE locations SET name = ?, city = ?, address = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, l.Name, l.City, l.Address, l.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// Delete removes a location and, via cascading keys, its theaters, seats
// and food items.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM locations WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}
