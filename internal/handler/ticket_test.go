package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefront/ticketing/internal/repository"
	"github.com/cinefront/ticketing/internal/validate"
)

func newTicketHandler(t *testing.T) (*TicketHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTicketHandler(
		repository.NewTicketRepo(db),
		repository.NewSeatRepo(db),
		repository.NewShowtimeRepo(db),
	), mock
}

func createTicketContext(t *testing.T, body string, adminID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validate.New()
	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", adminID)
	c.Set("role", "ADMIN")
	return c, rec
}

func expectShowtimeRow(mock sqlmock.Sqlmock, id, theaterID uint64, basePrice uint32) {
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM showtimes WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "movie_id", "theater_id", "starts_at", "base_price_cents", "created_at", "updated_at",
		}).AddRow(id, 1, theaterID, now.Add(time.Hour), basePrice, now, now))
}

func expectSeatRow(mock sqlmock.Sqlmock, id, theaterID uint64, reserved bool, userID interface{}, guestID interface{}, holdExp interface{}) {
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "theater_id", "row_num", "col_num", "is_reserved",
			"reserved_by_user_id", "reserved_by_guest", "hold_expires_at",
			"created_at", "updated_at",
		}).AddRow(id, theaterID, 1, 1, reserved, userID, guestID, holdExp, now, now))
}

func TestTicketHandlerCreateBlockedByForeignHold(t *testing.T) {
	h, mock := newTicketHandler(t)

	expectShowtimeRow(mock, 3, 1, 1200)
	live := time.Now().UTC().Add(3 * time.Minute)
	expectSeatRow(mock, 10, 1, true, uint64(99), nil, live)

	c, rec := createTicketContext(t, `{"showtime_id":3,"seat_id":10}`, 7)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "held by another client")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketHandlerCreateConsumesOwnHold(t *testing.T) {
	h, mock := newTicketHandler(t)

	expectShowtimeRow(mock, 3, 1, 1200)
	live := time.Now().UTC().Add(3 * time.Minute)
	expectSeatRow(mock, 10, 1, true, uint64(7), nil, live)
	created := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO tickets \(showtime_id, seat_id, price_cents\)`).
		WithArgs(3, 10, 1200).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`SELECT created_at FROM tickets WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectExec(`(?s)UPDATE seats.+SET is_reserved = 0`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := createTicketContext(t, `{"showtime_id":3,"seat_id":10}`, 7)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":42`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketHandlerCreateIgnoresLapsedForeignHold(t *testing.T) {
	h, mock := newTicketHandler(t)

	expectShowtimeRow(mock, 3, 1, 1200)
	lapsed := time.Now().UTC().Add(-time.Minute)
	expectSeatRow(mock, 10, 1, true, uint64(99), nil, lapsed)
	created := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO tickets \(showtime_id, seat_id, price_cents\)`).
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectQuery(`SELECT created_at FROM tickets WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	c, rec := createTicketContext(t, `{"showtime_id":3,"seat_id":10}`, 7)
	require.NoError(t, h.Create(c))
	// the foreign hold already lapsed, so no hold-clearing UPDATE runs
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
