package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinefront/ticketing/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo provides CRUD operations for the movie catalog.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a new MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = `id, title, description, duration_min, rating, poster_url, created_at, updated_at`

func scanMovie(row interface{ Scan(...any) error }) (model.Movie, error) {
	var (
		m    model.Movie
		desc sql.NullString
	)
	err := row.Scan(&m.ID, &m.Title, &desc, &m.DurationMin, &m.Rating, &m.PosterURL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.Movie{}, err
	}
	m.Description = desc.String
	return m, nil
}

// List returns all movies ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies ORDER BY title, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// GetByID returns the movie with the given id or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a new movie and populates the generated id and
// timestamps on the record.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, description, duration_min, rating, poster_url) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMin, m.Rating, m.PosterURL)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM movies WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// Update rewrites the movie's fields. Returns ErrMovieNotFound when no
// row matches.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies SET title = ?, description = ?, duration_min = ?, rating = ?, poster_url = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMin, m.Rating, m.PosterURL, m.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// Delete removes a movie; its showtimes and their tickets cascade away.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM movies WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
