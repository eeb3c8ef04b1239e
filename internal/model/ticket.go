package model

import "time"

// Ticket represents one seat's admission for one showtime at a price.
// For a given (showtime, seat) pair at most one ticket may exist; the
// tickets table enforces this with a unique key so that concurrent
// purchases cannot both succeed.
//
// OrderID links the ticket to the purchase that created it. It is nil for
// tickets issued through the administrative single-ticket path.
type Ticket struct {
	ID         uint64    // tickets.id
	ShowtimeID uint64    // tickets.showtime_id
	SeatID     uint64    // tickets.seat_id
	OrderID    *uint64   // tickets.order_id (nullable)
	PriceCents uint32    // tickets.price_cents
	CreatedAt  time.Time // tickets.created_at
}
