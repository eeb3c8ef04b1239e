package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinefront/ticketing/internal/model"
)

// ErrFoodItemNotFound is returned when a food item lookup yields no rows.
var ErrFoodItemNotFound = errors.New("food item not found")

// FoodRepo provides CRUD operations for the concession catalog.
type FoodRepo struct {
	db *sql.DB
}

// NewFoodRepo returns a new FoodRepo bound to the given database.
func NewFoodRepo(db *sql.DB) *FoodRepo { return &FoodRepo{db: db} }

const foodColumns = `id, location_id, name, description, price_cents, is_vegan, image_url, created_at, updated_at`

func scanFoodItem(row interface{ Scan(...any) error }) (model.FoodItem, error) {
	var (
		f    model.FoodItem
		desc sql.NullString
	)
	err := row.Scan(&f.ID, &f.LocationID, &f.Name, &desc, &f.PriceCents, &f.IsVegan, &f.ImageURL, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return model.FoodItem{}, err
	}
	f.Description = desc.String
	return f, nil
}

// List returns food items, optionally filtered by location.
func (r *FoodRepo) List(ctx context.Context, locationID uint64) ([]model.FoodItem, error) {
	query := `SELECT ` + foodColumns + ` FROM food_items`
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
	var result []model.FoodItem
	for rows.Next() {
		f, err := scanFoodItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// GetByID returns the food item with the given id or ErrFoodItemNotFound.
func (r *FoodRepo) GetByID(ctx context.Context, id uint64) (*model.FoodItem, error) {
	const q = `SELECT ` + foodColumns + ` FROM food_items WHERE id = ?`
	f, err := scanFoodItem(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFoodItemNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetManyTx loads the food items for the given ids inside the caller's
// transaction. It returns ErrFoodItemNotFound when any id is missing, so
// the purchase flow rejects orders referencing unknown items.
func (r *FoodRepo) GetManyTx(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]model.FoodItem, error) {
	if len(ids) == 0 {
		return map[uint64]model.FoodItem{}, nil
	}
	query := `SELECT ` + foodColumns + ` FROM food_items WHERE id IN (`
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	found := make(map[uint64]model.FoodItem, len(ids))
	for rows.Next() {
		f, err := scanFoodItem(rows)
		if err != nil {
			return nil, err
		}
		found[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, ErrFoodItemNotFound
		}
	}
	return found, nil
}

// Create inserts a new food item and populates the generated id and
// timestamps on the record.
func (r *FoodRepo) Create(ctx context.Context, f *model.FoodItem) error {
	const q = `INSERT INTO food_items (location_id, name, description, price_cents, is_vegan, image_url) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, f.LocationID, f.Name, f.Description, f.PriceCents, f.IsVegan, f.ImageURL)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM food_items WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, f.ID).Scan(&f.CreatedAt, &f.UpdatedAt)
}

// Update rewrites the food item's fields. Returns ErrFoodItemNotFound
// when no row matches.
func (r *FoodRepo) Update(ctx context.Context, f *model.FoodItem) error {
	const q = `UPDATE food_items SET location_id = ?, name = ?, description = ?, price_cents = ?, is_vegan = ?, image_url = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, f.LocationID, f.Name, f.Description, f.PriceCents, f.IsVegan, f.ImageURL, f.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrFoodItemNotFound
	}
	return nil
}

// Delete removes a food item. It fails with a foreign-key error when the
// item appears in an existing order line.
func (r *FoodRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM food_items WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrFoodItemNotFound
	}
	return nil
}
