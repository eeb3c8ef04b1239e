// Package queue defines message payloads exchanged over the broker and
// the background consumer for them.
package queue

// OrderConfirmedEvent is published after an order commits. It carries
// enough for downstream consumers (logging, analytics, notification
// fan-out) to act without querying the primary database.
type OrderConfirmedEvent struct {
	OrderID     uint64   `json:"order_id"`
	ShowtimeID  uint64   `json:"showtime_id"`
	TheaterID   uint64   `json:"theater_id"`
	UserID      *uint64  `json:"user_id,omitempty"`
	GuestID     *string  `json:"guest_id,omitempty"`
	SeatIDs     []uint64 `json:"seat_ids"`
	TotalCents  uint32   `json:"total_cents"`
	ConfirmedAt string   `json:"confirmed_at"`
}

// QueueName is the durable queue carrying order confirmations.
const QueueName = "order.confirmed"
