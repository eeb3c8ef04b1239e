package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefront/ticketing/internal/model"
)

func TestTicketRepoIssueBatchTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tickets \(showtime_id, seat_id, order_id, price_cents\) VALUES \(\?, \?, \?, \?\),\(\?, \?, \?, \?\)`).
		WithArgs(3, 10, 7, 1200, 3, 11, 7, 1200).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	repo := NewTicketRepo(db)
	require.NoError(t, repo.IssueBatchTx(context.Background(), tx, 3, 7, []uint64{10, 11}, 1200))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepoIssueBatchTxSeatTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tickets`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '3-10' for key 'uq_tickets_showtime_seat'"))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	repo := NewTicketRepo(db)
	err = repo.IssueBatchTx(context.Background(), tx, 3, 7, []uint64{10}, 1200)
	assert.ErrorIs(t, err, ErrSeatTaken)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepoIssueBatchTxEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	repo := NewTicketRepo(db)
	require.NoError(t, repo.IssueBatchTx(context.Background(), tx, 3, 7, nil, 1200))
	require.NoError(t, tx.Rollback())
}

func TestTicketRepoCreateSeatTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO tickets \(showtime_id, seat_id, price_cents\)`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	repo := NewTicketRepo(db)
	err = repo.Create(context.Background(), &model.Ticket{ShowtimeID: 3, SeatID: 10, PriceCents: 1200})
	assert.ErrorIs(t, err, ErrSeatTaken)
}

func TestTicketRepoCreateSetsIDAndCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO tickets \(showtime_id, seat_id, price_cents\)`).
		WithArgs(3, 10, 1200).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`SELECT created_at FROM tickets WHERE id = \?`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	repo := NewTicketRepo(db)
	tk := &model.Ticket{ShowtimeID: 3, SeatID: 10, PriceCents: 1200}
	require.NoError(t, repo.Create(context.Background(), tk))
	assert.EqualValues(t, 42, tk.ID)
	assert.True(t, tk.CreatedAt.Equal(created))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM tickets WHERE id = \?`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTicketRepo(db)
	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrTicketNotFound)
}

func TestTicketRepoTakenSeatIDsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT seat_id FROM tickets WHERE showtime_id = \? AND seat_id IN \(\?,\?,\?\)`).
		WithArgs(3, 10, 11, 12).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(11))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	repo := NewTicketRepo(db)
	taken, err := repo.TakenSeatIDsTx(context.Background(), tx, 3, []uint64{10, 11, 12})
	require.NoError(t, err)
	assert.Equal(t, []uint64{11}, taken)
	require.NoError(t, tx.Rollback())
}
