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

	"github.com/cinefront/ticketing/internal/config"
	"github.com/cinefront/ticketing/internal/middleware"
	"github.com/cinefront/ticketing/internal/repository"
	"github.com/cinefront/ticketing/internal/validate"
)

func newSeatHandler(t *testing.T) (*SeatHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{SeatHoldTTL: 5 * time.Minute}
	return NewSeatHandler(cfg, repository.NewSeatRepo(db), repository.NewTheaterRepo(db)), mock
}

func reserveContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validate.New()
	req := httptest.NewRequest(http.MethodPost, "/api/seats/1/reserve", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("theaterID")
	c.SetParamValues("1")
	return c, rec
}

func TestSeatHandlerReserveRequiresIdentity(t *testing.T) {
	h, _ := newSeatHandler(t)
	c, rec := reserveContext(t, `{"row":1,"column":2}`)

	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSeatHandlerReserveAsGuest(t *testing.T) {
	h, mock := newSeatHandler(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \? AND row_num = \? AND col_num = \?`).
		WithArgs(1, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "theater_id", "row_num", "col_num", "is_reserved",
			"reserved_by_user_id", "reserved_by_guest", "hold_expires_at",
			"created_at", "updated_at",
		}).AddRow(10, 1, 1, 2, false, nil, nil, nil, now, now))
	mock.ExpectExec(`(?s)UPDATE seats.+SET is_reserved = 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := reserveContext(t, `{"row":1,"column":2}`)
	c.Request().Header.Set(middleware.GuestIDHeader, "kiosk-12")

	require.NoError(t, h.Reserve(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"seat_id":10`)
	assert.Contains(t, rec.Body.String(), `"expires_in":"5m0s"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatHandlerReserveConflict(t *testing.T) {
	h, mock := newSeatHandler(t)

	now := time.Now().UTC()
	live := now.Add(3 * time.Minute)
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "theater_id", "row_num", "col_num", "is_reserved",
			"reserved_by_user_id", "reserved_by_guest", "hold_expires_at",
			"created_at", "updated_at",
		}).AddRow(10, 1, 1, 2, true, uint64(99), nil, live, now, now))
	mock.ExpectExec(`(?s)UPDATE seats.+SET is_reserved = 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := reserveContext(t, `{"row":1,"column":2}`)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSeatHandlerReserveUnknownSeat(t *testing.T) {
	h, mock := newSeatHandler(t)

	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := reserveContext(t, `{"row":40,"column":40}`)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeatHandlerProvisionRejectsSeatCountMismatch(t *testing.T) {
	h, mock := newSeatHandler(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM theaters WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "location_id", "name", "seat_count", "created_at", "updated_at",
		}).AddRow(4, 1, "Screen 1", 50, now, now))

	e := echo.New()
	e.Validator = validate.New()
	body := `{"seats":[{"row":1,"column":1},{"row":1,"column":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/seats/theater/4/add", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("theaterID")
	c.SetParamValues("4")

	require.NoError(t, h.Provision(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "declared seat count")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatHandlerReleaseForeignHold(t *testing.T) {
	h, mock := newSeatHandler(t)

	now := time.Now().UTC()
	live := now.Add(3 * time.Minute)
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE theater_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "theater_id", "row_num", "col_num", "is_reserved",
			"reserved_by_user_id", "reserved_by_guest", "hold_expires_at",
			"created_at", "updated_at",
		}).AddRow(10, 1, 1, 2, true, nil, "someone-else", live, now, now))

	e := echo.New()
	e.Validator = validate.New()
	req := httptest.NewRequest(http.MethodPost, "/api/seats/1/release", strings.NewReader(`{"row":1,"column":2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.GuestIDHeader, "kiosk-12")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("theaterID")
	c.SetParamValues("1")

	require.NoError(t, h.Release(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
