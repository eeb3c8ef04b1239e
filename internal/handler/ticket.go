package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/middleware"
	"github.com/cinefront/ticketing/internal/model"
	"github.com/cinefront/ticketing/internal/repository"
)

// TicketHandler serves administrative ticket issuance and the
// per-showtime seat availability view.
type TicketHandler struct {
	Tickets   *repository.TicketRepo
	Seats     *repository.SeatRepo
	Showtimes *repository.ShowtimeRepo
}

func NewTicketHandler(t *repository.TicketRepo, s *repository.SeatRepo, st *repository.ShowtimeRepo) *TicketHandler {
	return &TicketHandler{Tickets: t, Seats: s, Showtimes: st}
}

type createTicketReq struct {
	ShowtimeID uint64  `json:"showtime_id" validate:"required,min=1"`
	SeatID     uint64  `json:"seat_id" validate:"required,min=1"`
	PriceCents *uint32 `json:"price_cents"`
}

// Create handles POST /api/tickets (admin). The referenced showtime and
// seat must exist and the seat must belong to the showtime's theater.
// A live checkout hold by anyone else blocks issuance with 409; an
// expired hold does not. When the pair is already ticketed the insert
// loses against the unique key and the client sees 409. Price defaults
// to the showtime's base price. Only the caller's own hold is consumed
// once the ticket exists.
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	st, err := h.Showtimes.GetByID(ctx, req.ShowtimeID)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seat, err := h.Seats.GetByID(ctx, req.SeatID)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if seat.TheaterID != st.TheaterID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat does not belong to the showtime's theater"})
	}

	actor := requestActor(c)
	holdLive := seat.IsReserved && seat.HoldExpiresAt != nil && seat.HoldExpiresAt.After(time.Now().UTC())
	if holdLive && !actor.Holds(seat) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat is held by another client"})
	}

	price := st.BasePriceCents
	if req.PriceCents != nil {
		price = *req.PriceCents
	}
	ticket := &model.Ticket{ShowtimeID: st.ID, SeatID: seat.ID, PriceCents: price}
	if err := h.Tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already ticketed for this showtime"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if actor.Holds(seat) {
		_ = h.Seats.ClearHold(ctx, seat.ID)
	}
	middleware.CountTicketsIssued(1)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          ticket.ID,
		"showtime_id": ticket.ShowtimeID,
		"seat_id":     ticket.SeatID,
		"price_cents": ticket.PriceCents,
		"created_at":  ticket.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Delete handles DELETE /api/tickets/:id (admin). Removing a ticket frees
// the seat for its showtime.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	if err := h.Tickets.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}

// Get handles GET /api/tickets/:id (admin).
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.Tickets.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, t)
}

type showtimeSeatView struct {
	SeatID uint64 `json:"seat_id"`
	Row    uint32 `json:"row"`
	Col    uint32 `json:"column"`
	Status string `json:"status"` // FREE | HELD | TICKETED
}

// ShowtimeSeats handles GET /api/showtimes/:id/seats. TICKETED wins over
// HELD; a lapsed hold counts as FREE even before the sweeper ran.
func (h *TicketHandler) ShowtimeSeats(c echo.Context) error {
	showtimeID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()

	st, err := h.Showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	seats, err := h.Seats.GetByTheater(ctx, st.TheaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	tickets, err := h.Tickets.ListByShowtime(ctx, showtimeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ticketed := make(map[uint64]struct{}, len(tickets))
	for _, t := range tickets {
		ticketed[t.SeatID] = struct{}{}
	}

	now := time.Now().UTC()
	views := make([]showtimeSeatView, 0, len(seats))
	for _, s := range seats {
		status := "FREE"
		if _, ok := ticketed[s.ID]; ok {
			status = "TICKETED"
		} else if s.IsReserved && s.HoldExpiresAt != nil && s.HoldExpiresAt.After(now) {
			status = "HELD"
		}
		views = append(views, showtimeSeatView{SeatID: s.ID, Row: s.Row, Col: s.Col, Status: status})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id": st.ID,
		"theater_id":  st.TheaterID,
		"seats":       views,
	})
}
