package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cinefront/ticketing/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatsAlreadyProvisioned is returned when bulk seat creation is
// attempted for a theater that already has seats.
var ErrSeatsAlreadyProvisioned = errors.New("theater already has seats")

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *SeatRepo) DB() *sql.DB { return r.db }

const seatColumns = `id, theater_id, row_num, col_num, is_reserved, reserved_by_user_id, reserved_by_guest, hold_expires_at, created_at, updated_at`

func scanSeat(row interface{ Scan(...any) error }) (model.Seat, error) {
	var (
		s       model.Seat
		userID  sql.NullInt64
		guestID sql.NullString
		holdExp sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.TheaterID, &s.Row, &s.Col, &s.IsReserved, &userID, &guestID, &holdExp, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return model.Seat{}, err
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		s.ReservedByUserID = &v
	}
	if guestID.Valid {
		v := guestID.String
		s.ReservedByGuest = &v
	}
	if holdExp.Valid {
		t := holdExp.Time
		s.HoldExpiresAt = &t
	}
	return s, nil
}

// GetByTheater retrieves all seats of a theater ordered by row then column.
func (r *SeatRepo) GetByTheater(ctx context.Context, theaterID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + `
	           FROM seats
	           WHERE theater_id = ?
	           ORDER BY row_num, col_num`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAvailableByTheater returns the subset of a theater's seats with no
// active hold. A hold whose expiry has passed counts as no hold.
func (r *SeatRepo) GetAvailableByTheater(ctx context.Context, theaterID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + `
	           FROM seats
	           WHERE theater_id = ?
	             AND (is_reserved = 0 OR (hold_expires_at IS NOT NULL AND hold_expires_at <= UTC_TIMESTAMP()))
	           ORDER BY row_num, col_num`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByPosition retrieves a seat by its (theater, row, column) coordinates.
func (r *SeatRepo) GetByPosition(ctx context.Context, theaterID uint64, row, col uint32) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE theater_id = ? AND row_num = ? AND col_num = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, theaterID, row, col))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Reserve places a checkout hold on the seat at (theater, row, column) for
// the given actor. The single UPDATE is the compare-and-set: it only
// matches a seat with no live hold, so two concurrent reservations cannot
// both succeed. Returns the seat id on success, ErrSeatNotFound when the
// seat does not exist, and ErrConflict when another live hold is present.
func (r *SeatRepo) Reserve(ctx context.Context, theaterID uint64, row, col uint32, actor Actor, ttl time.Duration) (uint64, error) {
	seat, err := r.GetByPosition(ctx, theaterID, row, col)
	if err != nil {
		return 0, err
	}
	expires := time.Now().UTC().Add(ttl)
	const q = `UPDATE seats
	           SET is_reserved = 1, reserved_by_user_id = ?, reserved_by_guest = ?, hold_expires_at = ?
	           WHERE id = ?
	             AND (is_reserved = 0 OR (hold_expires_at IS NOT NULL AND hold_expires_at <= UTC_TIMESTAMP()))`
	res, err := r.db.ExecContext(ctx, q, actor.userIDValue(), actor.guestIDValue(), expires, seat.ID)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrConflict
	}
	return seat.ID, nil
}

// Release clears the hold on the seat at (theater, row, column). It returns
// ErrSeatNotFound when the seat does not exist or carries no hold, and
// ErrForbidden when the hold belongs to a different actor.
func (r *SeatRepo) Release(ctx context.Context, theaterID uint64, row, col uint32, actor Actor) error {
	seat, err := r.GetByPosition(ctx, theaterID, row, col)
	if err != nil {
		return err
	}
	if !seat.IsReserved {
		return ErrSeatNotFound
	}
	if !actor.Holds(seat) {
		return ErrForbidden
	}
	const q = `UPDATE seats
	           SET is_reserved = 0, reserved_by_user_id = NULL, reserved_by_guest = NULL, hold_expires_at = NULL
	           WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, seat.ID)
	return err
}

// ProvisionBulk inserts the full seat layout for a theater in a single
// statement. The idempotency guard refuses to run for theaters that
// already have any seats.
func (r *SeatRepo) ProvisionBulk(ctx context.Context, theaterID uint64, positions [][2]uint32) error {
	if len(positions) == 0 {
		return nil
	}
	var existing int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats WHERE theater_id = ?`, theaterID).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return ErrSeatsAlreadyProvisioned
	}
	query := `INSERT INTO seats (theater_id, row_num, col_num) VALUES `
	args := make([]interface{}, 0, len(positions)*3)
	for i, p := range positions {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, theaterID, p[0], p[1])
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID returns the seat with the given id or ErrSeatNotFound.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ClearHold drops whatever hold is on the seat. Used after a ticket is
// issued for it, when the hold no longer means anything.
func (r *SeatRepo) ClearHold(ctx context.Context, seatID uint64) error {
	const q = `UPDATE seats
	           SET is_reserved = 0, reserved_by_user_id = NULL, reserved_by_guest = NULL, hold_expires_at = NULL
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, seatID)
	return err
}

// ReleaseExpiredHolds clears every hold whose expiry has passed and
// returns the number of seats released. Invoked periodically by the hold
// sweeper; safe to run concurrently with request handling because the
// predicate only matches lapsed holds.
func (r *SeatRepo) ReleaseExpiredHolds(ctx context.Context) (int64, error) {
	const q = `UPDATE seats
	           SET is_reserved = 0, reserved_by_user_id = NULL, reserved_by_guest = NULL, hold_expires_at = NULL
	           WHERE is_reserved = 1 AND hold_expires_at IS NOT NULL AND hold_expires_at <= UTC_TIMESTAMP()`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ClearHoldsForActorTx releases the actor's holds on the given seats within
// an existing transaction. Ticket issuance calls this so a consumed hold
// does not linger after purchase.
func (r *SeatRepo) ClearHoldsForActorTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, actor Actor) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `UPDATE seats
	          SET is_reserved = 0, reserved_by_user_id = NULL, reserved_by_guest = NULL, hold_expires_at = NULL
	          WHERE id IN (`
	args := make([]interface{}, 0, len(seatIDs)+2)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += `) AND (reserved_by_user_id <=> ? AND reserved_by_guest <=> ?)`
	args = append(args, actor.userIDValue(), actor.guestIDValue())
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// TheaterSeatsTx returns the ids of the given seats that belong to the
// theater, within a transaction. Callers compare the result against their
// input to detect seats from other theaters.
func (r *SeatRepo) TheaterSeatsTx(ctx context.Context, tx *sql.Tx, theaterID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	query := `SELECT id FROM seats WHERE theater_id = ? AND id IN (`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, theaterID)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += `)`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
