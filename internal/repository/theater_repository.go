package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinefront/ticketing/internal/model"
)

// ErrTheaterNotFound is returned when a theater lookup yields no rows.
var ErrTheaterNotFound = errors.New("theater not found")

// TheaterRepo provides CRUD operations for screening rooms.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo returns a new TheaterRepo bound to the given database.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

const theaterColumns = `id, location_id, name, seat_count, created_at, updated_at`

func scanTheater(row interface{ Scan(...any) error }) (model.Theater, error) {
	var t model.Theater
	err := row.Scan(&t.ID, &t.LocationID, &t.Name, &t.SeatCount, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// List returns all theaters, optionally filtered by location.
func (r *TheaterRepo) List(ctx context.Context, locationID uint64) ([]model.Theater, error) {
	query := `SELECT ` + theaterColumns + ` FROM theaters`
	var args []interface{}
	if locationID != 0 {
		query += ` WHERE location_id = ?`
		args = append(args, locationID)
	}
	query += ` ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Theater
	for rows.Next() {
		t, err := scanTheater(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// GetByID returns the theater with the given id or ErrTheaterNotFound.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	const q = `SELECT ` + theaterColumns + ` FROM theaters WHERE id = ?`
	t, err := scanTheater(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a new theater and populates the generated id and
// timestamps on the record. Seats are not created here; the seat registry
// provisions them in bulk afterwards.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	const q = `INSERT INTO theaters (location_id, name, seat_count) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, t.LocationID, t.Name, t.SeatCount)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM theaters WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// Update rewrites the theater's fields. Returns ErrTheaterNotFound when
// no row matches.
func (r *TheaterRepo) Update(ctx context.Context, t *model.Theater) error {
	const q = `UPDATE theaters SET location_id = ?, name = ?, seat_count = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, t.LocationID, t.Name, t.SeatCount, t.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrTheaterNotFound
	}
	return nil
}

// Delete removes a theater together with its seats and showtimes.
func (r *TheaterRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM theaters WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrTheaterNotFound
	}
	return nil
}
