package model

import "time"

// Seat describes a physical seat in a theater. Seats are uniquely
// identified by their theater, row number and column number. Seats are
// created in bulk when a theater is provisioned and are never deleted
// individually; they are removed only when the owning theater is removed.
//
// The is_reserved flag means exactly "an active checkout hold exists". It
// is not the occupancy signal for a screening: whether a seat is taken for
// a showtime is derived from ticket existence for that showtime.
//
// Fields:
//
//	ID               – primary key identifier.
//	TheaterID        – theater this seat belongs to.
//	Row, Col         – 1-based position within the theater.
//	IsReserved       – whether a checkout hold is active.
//	ReservedByUserID – registered user holding the seat (nil otherwise).
//	ReservedByGuest  – opaque guest id holding the seat (nil otherwise).
//	HoldExpiresAt    – when the active hold lapses.
type Seat struct {
	ID               uint64     // seats.id
	TheaterID        uint64     // seats.theater_id
	Row              uint32     // seats.row_num
	Col              uint32     // seats.col_num
	IsReserved       bool       // seats.is_reserved
	ReservedByUserID *uint64    // seats.reserved_by_user_id (nullable)
	ReservedByGuest  *string    // seats.reserved_by_guest (nullable)
	HoldExpiresAt    *time.Time // seats.hold_expires_at (nullable)
	CreatedAt        time.Time  // seats.created_at
	UpdatedAt        time.Time  // seats.updated_at
}
