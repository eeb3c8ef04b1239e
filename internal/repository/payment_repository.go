package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinefront/ticketing/internal/model"
)

// ErrPaymentNotFound is returned when a payment lookup yields no rows.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo stores bare payment records. There is no gateway flow; a
// payment row simply annotates an order with how it was settled.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, order_id, amount_cents, method, reference, status, created_at`

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.AmountCents, &p.Method, &p.Reference, &p.Status, &p.CreatedAt)
	return p, err
}

// List returns payments, optionally filtered by order.
func (r *PaymentRepo) List(ctx context.Context, orderID uint64) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	var args []interface{}
	if orderID != 0 {
		query += ` WHERE order_id = ?`
		args = append(args, orderID)
	}
	query += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetByID returns the payment with the given id or ErrPaymentNotFound.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a payment record and populates the generated id and
// timestamp. The caller supplies the uuid reference.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (order_id, amount_cents, method, reference, status) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, p.OrderID, p.AmountCents, p.Method, p.Reference, p.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt)
}

// Delete removes a payment record.
func (r *PaymentRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM payments WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
