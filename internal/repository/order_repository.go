package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cinefront/ticketing/internal/model"
)

// ErrOrderNotFound is returned when an order lookup yields no rows.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo provides CRUD operations for orders and their food line
// items. Orders are created inside the purchase transaction together with
// their tickets; the read side reconstructs an order exactly by joining
// tickets on order_id.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// FoodLine is one concession line of an order as submitted for insertion
// and as returned by the detail views.
type FoodLine struct {
	FoodItemID     uint64 `json:"food_item_id"`
	Name           string `json:"name,omitempty"`
	Quantity       uint32 `json:"quantity"`
	UnitPriceCents uint32 `json:"unit_price_cents"`
}

// OrderDetail is an order together with the seats its tickets cover and
// its food lines. It is returned by the purchase-history views.
type OrderDetail struct {
	ID         uint64     `json:"id"`
	ShowtimeID uint64     `json:"showtime_id"`
	TheaterID  uint64     `json:"theater_id"`
	TotalCents uint32     `json:"total_cents"`
	CreatedAt  time.Time  `json:"created_at"`
	Seats      []SeatRef  `json:"seats"`
	Food       []FoodLine `json:"food"`
}

// SeatRef identifies one ticketed seat inside an OrderDetail.
type SeatRef struct {
	SeatID     uint64 `json:"seat_id"`
	Row        uint32 `json:"row"`
	Col        uint32 `json:"col"`
	PriceCents uint32 `json:"price_cents"`
}

// CreateTx inserts a new order within the caller's transaction and
// populates the generated ID on the record. The total starts at zero and
// is set by UpdateTotalTx once tickets and food lines are priced.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (user_id, guest_id, theater_id, total_cents) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, nullableUint64(o.UserID), nullableString(o.GuestID), o.TheaterID, o.TotalCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT created_at FROM orders WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, o.ID).Scan(&o.CreatedAt)
}

// UpdateTotalTx sets the order's final total inside the caller's
// transaction.
func (r *OrderRepo) UpdateTotalTx(ctx context.Context, tx *sql.Tx, orderID uint64, totalCents uint32) error {
	const q = `UPDATE orders SET total_cents = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, totalCents, orderID)
	return err
}

// AddFoodLinesTx inserts the order's concession lines in a single
// statement. Each line is one unique food item with its occurrence count;
// the caller is responsible for collapsing duplicates before calling.
// Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) AddFoodLinesTx(ctx context.Context, tx *sql.Tx, orderID uint64, lines []FoodLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `INSERT INTO order_food_items (order_id, food_item_id, quantity, unit_price_cents) VALUES `
	args := make([]interface{}, 0, len(lines)*4)
	for i, l := range lines {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, orderID, l.FoodItemID, l.Quantity, l.UnitPriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByUser returns the full purchase history of a registered user,
// newest first, with seats and food lines attached.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderDetail, error) {
	const q = `SELECT id, theater_id, total_cents, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	return r.listDetails(ctx, q, userID)
}

// ListByGuest returns the full purchase history of a guest identity,
// newest first, with seats and food lines attached.
func (r *OrderRepo) ListByGuest(ctx context.Context, guestID string) ([]OrderDetail, error) {
	const q = `SELECT id, theater_id, total_cents, created_at FROM orders WHERE guest_id = ? ORDER BY created_at DESC, id DESC`
	return r.listDetails(ctx, q, guestID)
}

func (r *OrderRepo) listDetails(ctx context.Context, query string, owner interface{}) ([]OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var details []OrderDetail
	for rows.Next() {
		var d OrderDetail
		if err := rows.Scan(&d.ID, &d.TheaterID, &d.TotalCents, &d.CreatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range details {
		if err := r.attachSeats(ctx, &details[i]); err != nil {
			return nil, err
		}
		if err := r.attachFood(ctx, &details[i]); err != nil {
			return nil, err
		}
	}
	return details, nil
}

// attachSeats loads the ticketed seats of an order by joining tickets on
// order_id. The showtime id on the detail comes from the tickets; every
// ticket of one order shares it.
func (r *OrderRepo) attachSeats(ctx context.Context, d *OrderDetail) error {
	const q = `SELECT t.showtime_id, t.seat_id, s.row_num, s.col_num, t.price_cents
	           FROM tickets t
	           JOIN seats s ON s.id = t.seat_id
	           WHERE t.order_id = ?
	           ORDER BY s.row_num, s.col_num`
	rows, err := r.db.QueryContext(ctx, q, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	d.Seats = []SeatRef{}
	for rows.Next() {
		var ref SeatRef
		if err := rows.Scan(&d.ShowtimeID, &ref.SeatID, &ref.Row, &ref.Col, &ref.PriceCents); err != nil {
			return err
		}
		d.Seats = append(d.Seats, ref)
	}
	return rows.Err()
}

func (r *OrderRepo) attachFood(ctx context.Context, d *OrderDetail) error {
	const q = `SELECT ofi.food_item_id, f.name, ofi.quantity, ofi.unit_price_cents
	           FROM order_food_items ofi
	           JOIN food_items f ON f.id = ofi.food_item_id
	           WHERE ofi.order_id = ?
	           ORDER BY ofi.id`
	rows, err := r.db.QueryContext(ctx, q, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	d.Food = []FoodLine{}
	for rows.Next() {
		var l FoodLine
		if err := rows.Scan(&l.FoodItemID, &l.Name, &l.Quantity, &l.UnitPriceCents); err != nil {
			return err
		}
		d.Food = append(d.Food, l)
	}
	return rows.Err()
}

// GetByID returns the bare order row or ErrOrderNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	const q = `SELECT id, user_id, guest_id, theater_id, total_cents, created_at FROM orders WHERE id = ?`
	var (
		o       model.Order
		userID  sql.NullInt64
		guestID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&o.ID, &userID, &guestID, &o.TheaterID, &o.TotalCents, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		o.UserID = &v
	}
	if guestID.Valid {
		v := guestID.String
		o.GuestID = &v
	}
	return &o, nil
}

// DeleteDangling removes orders that have no tickets pointing at them.
// Food lines go with the order via the cascading foreign key. The
// operation is idempotent; it returns the number of orders removed.
func (r *OrderRepo) DeleteDangling(ctx context.Context) (int64, error) {
	const q = `DELETE o FROM orders o
	           LEFT JOIN tickets t ON t.order_id = o.id
	           WHERE t.id IS NULL`
	result, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nullableUint64(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
