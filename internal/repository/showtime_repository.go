package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cinefront/ticketing/internal/model"
)

// ErrShowtimeNotFound is returned when a showtime lookup yields no rows.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ShowtimeRepo provides CRUD operations for scheduled screenings.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo returns a new ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

const showtimeColumns = `id, movie_id, theater_id, starts_at, base_price_cents, created_at, updated_at`

func scanShowtime(row interface{ Scan(...any) error }) (model.Showtime, error) {
	var s model.Showtime
	err := row.Scan(&s.ID, &s.MovieID, &s.TheaterID, &s.StartsAt, &s.BasePriceCents, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetByID returns the showtime with the given id or ErrShowtimeNotFound.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = ?`
	s, err := scanShowtime(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns showtimes ordered by start time. When theaterID or movieID
// is non-zero the result is filtered accordingly.
func (r *ShowtimeRepo) List(ctx context.Context, theaterID, movieID uint64) ([]model.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE 1=1`
	var args []interface{}
	if theaterID != 0 {
		query += ` AND theater_id = ?`
		args = append(args, theaterID)
	}
	if movieID != 0 {
		query += ` AND movie_id = ?`
		args = append(args, movieID)
	}
	query += ` ORDER BY starts_at, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Showtime
	for rows.Next() {
		s, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Create inserts a new showtime and populates the generated id and
// timestamps on the record.
func (r *ShowtimeRepo) Create(ctx context.Context, s *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, theater_id, starts_at, base_price_cents) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, s.MovieID, s.TheaterID, s.StartsAt.UTC(), s.BasePriceCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM showtimes WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update rewrites the mutable fields of a showtime. Returns
// ErrShowtimeNotFound when no row matches.
func (r *ShowtimeRepo) Update(ctx context.Context, id uint64, movieID, theaterID uint64, startsAt time.Time, basePriceCents uint32) error {
	const q = `UPDATE showtimes SET movie_id = ?, theater_id = ?, starts_at = ?, base_price_cents = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, movieID, theaterID, startsAt.UTC(), basePriceCents, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}

// Delete removes a showtime. Its tickets cascade away with it.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM showtimes WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}
