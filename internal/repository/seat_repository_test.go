package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seatRows(t *testing.T, id, theaterID uint64, row, col uint32, reserved bool, userID interface{}, guestID interface{}, holdExp interface{}) *sqlmock.Rows {
	t.Helper()
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "theater_id", "row_num", "col_num", "is_reserved",
		"reserved_by_user_id", "reserved_by_guest", "hold_expires_at",
		"created_at", "updated_at",
	}).AddRow(id, theaterID, row, col, reserved, userID, guestID, holdExp, now, now)
}

func TestSeatRepoReserveSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \? AND row_num = \? AND col_num = \?`).
		WithArgs(1, 2, 3).
		WillReturnRows(seatRows(t, 10, 1, 2, 3, false, nil, nil, nil))
	mock.ExpectExec(`(?s)UPDATE seats.+SET is_reserved = 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSeatRepo(db)
	id, err := repo.Reserve(context.Background(), 1, 2, 3, UserActor(7), 5*time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 10, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepoReserveConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	live := time.Now().UTC().Add(3 * time.Minute)
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \? AND row_num = \? AND col_num = \?`).
		WillReturnRows(seatRows(t, 10, 1, 2, 3, true, uint64(99), nil, live))
	mock.ExpectExec(`(?s)UPDATE seats.+SET is_reserved = 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewSeatRepo(db)
	_, err = repo.Reserve(context.Background(), 1, 2, 3, UserActor(7), 5*time.Minute)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepoReserveUnknownSeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewSeatRepo(db)
	_, err = repo.Reserve(context.Background(), 1, 50, 50, GuestActor("g-1"), time.Minute)
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestSeatRepoReleaseForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	holder := uint64(99)
	live := time.Now().UTC().Add(time.Minute)
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \?`).
		WillReturnRows(seatRows(t, 10, 1, 2, 3, true, holder, nil, live))

	repo := NewSeatRepo(db)
	err = repo.Release(context.Background(), 1, 2, 3, UserActor(7))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepoReleaseByGuestHolder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	live := time.Now().UTC().Add(time.Minute)
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \?`).
		WillReturnRows(seatRows(t, 10, 1, 2, 3, true, nil, "g-1", live))
	mock.ExpectExec(`(?s)UPDATE seats.+SET is_reserved = 0`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSeatRepo(db)
	require.NoError(t, repo.Release(context.Background(), 1, 2, 3, GuestActor("g-1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepoReleaseNoHold(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \?`).
		WillReturnRows(seatRows(t, 10, 1, 2, 3, false, nil, nil, nil))

	repo := NewSeatRepo(db)
	err = repo.Release(context.Background(), 1, 2, 3, UserActor(7))
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestSeatRepoProvisionBulk(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM seats WHERE theater_id = \?`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO seats \(theater_id, row_num, col_num\) VALUES \(\?, \?, \?\),\(\?, \?, \?\)`).
		WithArgs(4, 1, 1, 4, 1, 2).
		WillReturnResult(sqlmock.NewResult(1, 2))

	repo := NewSeatRepo(db)
	err = repo.ProvisionBulk(context.Background(), 4, [][2]uint32{{1, 1}, {1, 2}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepoProvisionBulkAlreadyProvisioned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM seats WHERE theater_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(64))

	repo := NewSeatRepo(db)
	err = repo.ProvisionBulk(context.Background(), 4, [][2]uint32{{1, 1}})
	assert.ErrorIs(t, err, ErrSeatsAlreadyProvisioned)
}

func TestSeatRepoReleaseExpiredHolds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE seats.+hold_expires_at <= UTC_TIMESTAMP`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewSeatRepo(db)
	n, err := repo.ReleaseExpiredHolds(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
