package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cinefront/ticketing/internal/model"
)

// ErrTicketNotFound is returned when a ticket lookup yields no rows.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSeatTaken is returned when a ticket insert collides with an existing
// ticket for the same (showtime, seat) pair.
var ErrSeatTaken = errors.New("seat already ticketed for this showtime")

// TicketRepo provides CRUD operations for tickets. A ticket admits one
// seat to one showtime; the tickets table carries a unique key on
// (showtime_id, seat_id) so concurrent purchases of the same seat cannot
// both succeed regardless of what the application checked beforehand.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *TicketRepo) DB() *sql.DB { return r.db }

const ticketColumns = `id, showtime_id, seat_id, order_id, price_cents, created_at`

func scanTicket(row interface{ Scan(...any) error }) (model.Ticket, error) {
	var (
		t       model.Ticket
		orderID sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.ShowtimeID, &t.SeatID, &orderID, &t.PriceCents, &t.CreatedAt); err != nil {
		return model.Ticket{}, err
	}
	if orderID.Valid {
		v := uint64(orderID.Int64)
		t.OrderID = &v
	}
	return t, nil
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062), which the unique keys surface on racing inserts.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// GetByID returns the ticket with the given id or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	t, err := scanTicket(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByShowtime returns every ticket issued for a showtime ordered by
// seat id.
func (r *TicketRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE showtime_id = ? ORDER BY seat_id`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// TakenSeatIDsTx returns the seat ids among seatIDs that already carry a
// ticket for the showtime. It runs inside the caller's transaction so the
// purchase flow sees a consistent snapshot before inserting. An empty
// input yields an empty result without touching the database.
func (r *TicketRepo) TakenSeatIDsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	query := `SELECT seat_id FROM tickets WHERE showtime_id = ? AND seat_id IN (`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showtimeID)
	for i, id := range seatIDs {
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
	var taken []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken = append(taken, id)
	}
	return taken, rows.Err()
}

// TakenSeatIDs is the non-transactional variant of TakenSeatIDsTx, used
// to report conflicts after a racing insert forced a rollback.
func (r *TicketRepo) TakenSeatIDs(ctx context.Context, showtimeID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	query := `SELECT seat_id FROM tickets WHERE showtime_id = ? AND seat_id IN (`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showtimeID)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var taken []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken = append(taken, id)
	}
	return taken, rows.Err()
}

// IssueBatchTx inserts one ticket per seat for the showtime in a single
// statement, all linked to the given order. The insert is all or nothing:
// when any seat collides with an existing ticket the statement fails with
// a duplicate-key error and no ticket is created, in which case
// ErrSeatTaken is returned. Passing an empty slice has no effect.
func (r *TicketRepo) IssueBatchTx(ctx context.Context, tx *sql.Tx, showtimeID, orderID uint64, seatIDs []uint64, priceCents uint32) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (showtime_id, seat_id, order_id, price_cents) VALUES `
	args := make([]interface{}, 0, len(seatIDs)*4)
	for i, seatID := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, showtimeID, seatID, orderID, priceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	if isDuplicateKey(err) {
		return ErrSeatTaken
	}
	return err
}

// Create inserts a single ticket outside of any order. This is the
// administrative issuance path; OrderID stays NULL. Returns ErrSeatTaken
// when the (showtime, seat) pair is already ticketed.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets (showtime_id, seat_id, price_cents) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, t.ShowtimeID, t.SeatID, t.PriceCents)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSeatTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT created_at FROM tickets WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt)
}

// Delete removes a ticket by id, freeing the seat for the showtime.
// Returns ErrTicketNotFound when no such ticket exists.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM tickets WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// CountByOrder returns the number of tickets linked to an order.
func (r *TicketRepo) CountByOrder(ctx context.Context, orderID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM tickets WHERE order_id = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, orderID).Scan(&n)
	return n, err
}
