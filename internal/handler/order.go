package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/config"
	"github.com/cinefront/ticketing/internal/middleware"
	"github.com/cinefront/ticketing/internal/model"
	"github.com/cinefront/ticketing/internal/queue"
	"github.com/cinefront/ticketing/internal/repository"
	"github.com/cinefront/ticketing/internal/service"
)

// OrderHandler assembles purchases. A purchase issues tickets for every
// requested seat of a showtime plus optional concession lines, in one
// transaction. Either everything lands or nothing does; the tickets
// unique key settles races the pre-check missed.
type OrderHandler struct {
	Cfg       config.Config
	Orders    *repository.OrderRepo
	Tickets   *repository.TicketRepo
	Seats     *repository.SeatRepo
	Showtimes *repository.ShowtimeRepo
	Food      *repository.FoodRepo
}

func NewOrderHandler(cfg config.Config, o *repository.OrderRepo, t *repository.TicketRepo, s *repository.SeatRepo, st *repository.ShowtimeRepo, f *repository.FoodRepo) *OrderHandler {
	return &OrderHandler{Cfg: cfg, Orders: o, Tickets: t, Seats: s, Showtimes: st, Food: f}
}

type createOrderReq struct {
	ShowtimeID  uint64   `json:"showtime_id" validate:"required,min=1"`
	SeatIDs     []uint64 `json:"seat_ids" validate:"required,min=1"`
	FoodItemIDs []uint64 `json:"food_item_ids"`
}

// Create handles POST /api/orders. Registered users are identified by
// their JWT, anonymous buyers by the guest header; neither means 401.
// Conflicting seats abort the whole purchase with a 400 listing every
// conflicting id, whether found by the pre-check or by losing the insert
// race.
func (h *OrderHandler) Create(c echo.Context) error {
	actor := requestActor(c)
	if actor.IsZero() {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication or guest id required"})
	}

	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	seatIDs := dedupIDs(req.SeatIDs)
	if len(seatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
	}

	ctx := c.Request().Context()
	st, err := h.Showtimes.GetByID(ctx, req.ShowtimeID)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			// purchase requests reference the showtime like any other
			// field, so a bad id is a bad request rather than a 404
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no showtime found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// every seat must belong to the showtime's theater
	inTheater, err := h.Seats.TheaterSeatsTx(ctx, tx, st.TheaterID, seatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(inTheater) != len(seatIDs) {
		known := make(map[uint64]struct{}, len(inTheater))
		for _, id := range inTheater {
			known[id] = struct{}{}
		}
		var unknown []uint64
		for _, id := range seatIDs {
			if _, ok := known[id]; !ok {
				unknown = append(unknown, id)
			}
		}
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "seats not found in the showtime's theater",
			"unknown": unknown,
		})
	}

	// friendly conflict list before attempting the insert
	taken, err := h.Tickets.TakenSeatIDsTx(ctx, tx, st.ID, seatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(taken) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":       "some seats are already taken",
			"conflicting": taken,
		})
	}

	order := &model.Order{TheaterID: st.TheaterID}
	if actor.UserID != 0 {
		uid := actor.UserID
		order.UserID = &uid
	} else {
		gid := actor.GuestID
		order.GuestID = &gid
	}
	if err := h.Orders.CreateTx(ctx, tx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}

	if err := h.Tickets.IssueBatchTx(ctx, tx, st.ID, order.ID, seatIDs, st.BasePriceCents); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			// lost the race; roll back and report the exact conflicts
			_ = tx.Rollback()
			committed = true
			conflicts, cerr := h.Tickets.TakenSeatIDs(ctx, st.ID, seatIDs)
			if cerr != nil {
				conflicts = nil
			}
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":       "some seats are already taken",
				"conflicting": conflicts,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue tickets"})
	}

	total := uint32(len(seatIDs)) * st.BasePriceCents

	uniqueFood, counts := countIDs(req.FoodItemIDs)
	if len(uniqueFood) > 0 {
		items, err := h.Food.GetManyTx(ctx, tx, uniqueFood)
		if err != nil {
			if errors.Is(err, repository.ErrFoodItemNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown food item id"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		lines := make([]repository.FoodLine, 0, len(uniqueFood))
		for _, id := range uniqueFood {
			item := items[id]
			qty := counts[id]
			lines = append(lines, repository.FoodLine{
				FoodItemID:     id,
				Quantity:       qty,
				UnitPriceCents: item.PriceCents,
			})
			total += item.PriceCents * qty
		}
		if err := h.Orders.AddFoodLinesTx(ctx, tx, order.ID, lines); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add food items"})
		}
	}

	if err := h.Orders.UpdateTotalTx(ctx, tx, order.ID, total); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to total order"})
	}

	// a purchased seat's checkout hold is consumed with the purchase
	if err := h.Seats.ClearHoldsForActorTx(ctx, tx, seatIDs, actor); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear holds"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	middleware.CountTicketsIssued(len(seatIDs))

	go h.publishConfirmed(order, st, seatIDs, total)

	return c.JSON(http.StatusOK, echo.Map{
		"id":          order.ID,
		"theater_id":  order.TheaterID,
		"showtime_id": st.ID,
		"seat_ids":    seatIDs,
		"total_cents": total,
	})
}

func (h *OrderHandler) publishConfirmed(order *model.Order, st *model.Showtime, seatIDs []uint64, total uint32) {
	if h.Cfg.AMQPURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = service.PublishOrderConfirmed(ctx, h.Cfg.AMQPURL, queue.OrderConfirmedEvent{
		OrderID:     order.ID,
		ShowtimeID:  st.ID,
		TheaterID:   order.TheaterID,
		UserID:      order.UserID,
		GuestID:     order.GuestID,
		SeatIDs:     seatIDs,
		TotalCents:  total,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ListForUser handles GET /api/orders/user. The purchase history is
// reconstructed exactly from tickets joined on order_id.
func (h *OrderHandler) ListForUser(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Orders.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if details == nil {
		details = []repository.OrderDetail{}
	}
	return c.JSON(http.StatusOK, details)
}

// ListForGuest handles GET /api/orders/guest/:guestID.
func (h *OrderHandler) ListForGuest(c echo.Context) error {
	guestID := c.Param("guestID")
	if guestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
	}
	details, err := h.Orders.ListByGuest(c.Request().Context(), guestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if details == nil {
		details = []repository.OrderDetail{}
	}
	return c.JSON(http.StatusOK, details)
}

// Reconcile handles POST /api/admin/maintenance/orders. It removes orders
// that no longer have tickets, typically after administrative ticket
// deletion. Safe to run repeatedly.
func (h *OrderHandler) Reconcile(c echo.Context) error {
	removed, err := h.Orders.DeleteDangling(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"removed": removed})
}
