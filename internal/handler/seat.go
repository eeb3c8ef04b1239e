package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/config"
	"github.com/cinefront/ticketing/internal/middleware"
	"github.com/cinefront/ticketing/internal/model"
	"github.com/cinefront/ticketing/internal/repository"
)

// SeatHandler serves the seat registry: listing, checkout holds and bulk
// provisioning. Holds are short-lived and belong to exactly one actor (a
// user or a guest); screening occupancy is a ticket concern and lives in
// the showtime availability endpoint instead.
type SeatHandler struct {
	Cfg      config.Config
	Seats    *repository.SeatRepo
	Theaters *repository.TheaterRepo
}

func NewSeatHandler(cfg config.Config, seats *repository.SeatRepo, theaters *repository.TheaterRepo) *SeatHandler {
	return &SeatHandler{Cfg: cfg, Seats: seats, Theaters: theaters}
}

type seatView struct {
	ID         uint64 `json:"id"`
	TheaterID  uint64 `json:"theater_id"`
	Row        uint32 `json:"row"`
	Col        uint32 `json:"column"`
	IsReserved bool   `json:"is_reserved"`
}

func toSeatView(s model.Seat) seatView {
	return seatView{ID: s.ID, TheaterID: s.TheaterID, Row: s.Row, Col: s.Col, IsReserved: s.IsReserved}
}

// List handles GET /api/seats/theater/:theaterID.
func (h *SeatHandler) List(c echo.Context) error {
	theaterID, err := pathID(c, "theaterID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	if _, err := h.Theaters.GetByID(c.Request().Context(), theaterID); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.Seats.GetByTheater(c.Request().Context(), theaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]seatView, 0, len(seats))
	for _, s := range seats {
		views = append(views, toSeatView(s))
	}
	return c.JSON(http.StatusOK, views)
}

// Available handles GET /api/seats/theater/:theaterID/available. Seats
// with expired holds count as free.
func (h *SeatHandler) Available(c echo.Context) error {
	theaterID, err := pathID(c, "theaterID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	seats, err := h.Seats.GetAvailableByTheater(c.Request().Context(), theaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]seatView, 0, len(seats))
	for _, s := range seats {
		views = append(views, toSeatView(s))
	}
	return c.JSON(http.StatusOK, views)
}

type seatPosReq struct {
	Row uint32 `json:"row" validate:"required,min=1"`
	Col uint32 `json:"column" validate:"required,min=1"`
}

// Reserve handles POST /api/seats/:theaterID/reserve. Both registered
// users and guests may hold a seat; anonymous callers must present the
// guest header. A live hold by anyone else yields 409.
func (h *SeatHandler) Reserve(c echo.Context) error {
	theaterID, err := pathID(c, "theaterID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	actor := requestActor(c)
	if actor.IsZero() {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication or guest id required"})
	}
	var req seatPosReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	seatID, err := h.Seats.Reserve(c.Request().Context(), theaterID, req.Row, req.Col, actor, h.Cfg.SeatHoldTTL)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	case errors.Is(err, repository.ErrConflict):
		middleware.CountHoldConflict()
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat is already reserved"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seat_id":    seatID,
		"expires_in": h.Cfg.SeatHoldTTL.String(),
	})
}

// Release handles POST /api/seats/:theaterID/release. Only the holder may
// release; anyone else gets 403 and the hold stays intact.
func (h *SeatHandler) Release(c echo.Context) error {
	theaterID, err := pathID(c, "theaterID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	actor := requestActor(c)
	if actor.IsZero() {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication or guest id required"})
	}
	var req seatPosReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.Seats.Release(c.Request().Context(), theaterID, req.Row, req.Col, actor)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active hold on this seat"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "hold belongs to another client"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "released"})
}

type provisionReq struct {
	Seats []seatPosReq `json:"seats" validate:"required,min=1,dive"`
}

// Provision handles POST /api/seats/theater/:theaterID/add. It creates
// the theater's full seat layout in one bulk insert. The layout size must
// match the theater's declared seat_count, and a theater that already has
// seats is rejected, so retries are harmless.
func (h *SeatHandler) Provision(c echo.Context) error {
	theaterID, err := pathID(c, "theaterID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	theater, err := h.Theaters.GetByID(c.Request().Context(), theaterID)
	if err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var req provisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if theater.SeatCount != 0 && uint32(len(req.Seats)) != theater.SeatCount {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat layout does not match the theater's declared seat count"})
	}

	positions := make([][2]uint32, 0, len(req.Seats))
	seen := make(map[[2]uint32]struct{}, len(req.Seats))
	for _, p := range req.Seats {
		pos := [2]uint32{p.Row, p.Col}
		if _, dup := seen[pos]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate seat position in request"})
		}
		seen[pos] = struct{}{}
		positions = append(positions, pos)
	}

	if err := h.Seats.ProvisionBulk(c.Request().Context(), theaterID, positions); err != nil {
		if errors.Is(err, repository.ErrSeatsAlreadyProvisioned) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "theater already has seats"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(positions)})
}
