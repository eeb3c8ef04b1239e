package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefront/ticketing/internal/config"
	"github.com/cinefront/ticketing/internal/middleware"
	"github.com/cinefront/ticketing/internal/repository"
	"github.com/cinefront/ticketing/internal/validate"
)

func newOrderHandler(t *testing.T) (*OrderHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOrderHandler(
		config.Config{},
		repository.NewOrderRepo(db),
		repository.NewTicketRepo(db),
		repository.NewSeatRepo(db),
		repository.NewShowtimeRepo(db),
		repository.NewFoodRepo(db),
	), mock
}

func createOrderContext(t *testing.T, body, guestID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validate.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if guestID != "" {
		req.Header.Set(middleware.GuestIDHeader, guestID)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestOrderHandlerCreateRequiresIdentity(t *testing.T) {
	h, _ := newOrderHandler(t)
	c, rec := createOrderContext(t, `{"showtime_id":3,"seat_ids":[10]}`, "")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderHandlerCreateUnknownShowtime(t *testing.T) {
	h, mock := newOrderHandler(t)

	mock.ExpectQuery(`SELECT .+ FROM showtimes WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := createOrderContext(t, `{"showtime_id":77,"seat_ids":[10]}`, "kiosk-12")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no showtime found")
}

func TestOrderHandlerCreateGuestPurchase(t *testing.T) {
	h, mock := newOrderHandler(t)

	expectShowtimeRow(mock, 3, 4, 1200)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM seats WHERE theater_id = \? AND id IN \(\?,\?\)`).
		WithArgs(4, 10, 11).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	mock.ExpectQuery(`SELECT seat_id FROM tickets WHERE showtime_id = \? AND seat_id IN \(\?,\?\)`).
		WithArgs(3, 10, 11).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectExec(`INSERT INTO orders \(user_id, guest_id, theater_id, total_cents\)`).
		WithArgs(nil, "kiosk-12", 4, 0).
		WillReturnResult(sqlmock.NewResult(17, 1))
	mock.ExpectQuery(`SELECT created_at FROM orders WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec(`INSERT INTO tickets \(showtime_id, seat_id, order_id, price_cents\)`).
		WithArgs(3, 10, 17, 1200, 3, 11, 17, 1200).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec(`UPDATE orders SET total_cents = \? WHERE id = \?`).
		WithArgs(2400, 17).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)UPDATE seats.+WHERE id IN \(\?,\?\) AND \(reserved_by_user_id <=> \? AND reserved_by_guest <=> \?\)`).
		WithArgs(10, 11, nil, "kiosk-12").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	c, rec := createOrderContext(t, `{"showtime_id":3,"seat_ids":[10,11,10]}`, "kiosk-12")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":17`)
	assert.Contains(t, rec.Body.String(), `"seat_ids":[10,11]`)
	assert.Contains(t, rec.Body.String(), `"total_cents":2400`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderHandlerCreateListsPrecheckConflicts(t *testing.T) {
	h, mock := newOrderHandler(t)

	expectShowtimeRow(mock, 3, 4, 1200)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM seats WHERE theater_id = \? AND id IN \(\?,\?\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	mock.ExpectQuery(`SELECT seat_id FROM tickets WHERE showtime_id = \? AND seat_id IN \(\?,\?\)`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(11))
	mock.ExpectRollback()

	c, rec := createOrderContext(t, `{"showtime_id":3,"seat_ids":[10,11]}`, "kiosk-12")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"conflicting":[11]`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderHandlerCreateLostInsertRace(t *testing.T) {
	h, mock := newOrderHandler(t)

	expectShowtimeRow(mock, 3, 4, 1200)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM seats WHERE theater_id = \? AND id IN \(\?,\?\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	mock.ExpectQuery(`SELECT seat_id FROM tickets WHERE showtime_id = \? AND seat_id IN \(\?,\?\)`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectExec(`INSERT INTO orders \(user_id, guest_id, theater_id, total_cents\)`).
		WillReturnResult(sqlmock.NewResult(17, 1))
	mock.ExpectQuery(`SELECT created_at FROM orders WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec(`INSERT INTO tickets \(showtime_id, seat_id, order_id, price_cents\)`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '3-11' for key 'uq_tickets_showtime_seat'"))
	mock.ExpectRollback()
	mock.ExpectQuery(`SELECT seat_id FROM tickets WHERE showtime_id = \? AND seat_id IN \(\?,\?\)`).
		WithArgs(3, 10, 11).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(11))

	c, rec := createOrderContext(t, `{"showtime_id":3,"seat_ids":[10,11]}`, "kiosk-12")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"conflicting":[11]`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderHandlerCreateUnknownSeats(t *testing.T) {
	h, mock := newOrderHandler(t)

	expectShowtimeRow(mock, 3, 4, 1200)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM seats WHERE theater_id = \? AND id IN \(\?,\?\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectRollback()

	c, rec := createOrderContext(t, `{"showtime_id":3,"seat_ids":[10,999]}`, "kiosk-12")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unknown":[999]`)
}
