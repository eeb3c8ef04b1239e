package model

import "time"

// Showtime represents a scheduled screening of a movie in a theater.
// Tickets reference showtimes by id, which removes the string-matching
// fragility of encoding the screening as a raw timestamp value.
//
// Fields:
//
//	ID             – primary key identifier.
//	MovieID        – movie being screened.
//	TheaterID      – theater where the screening happens.
//	StartsAt       – when the screening begins (UTC).
//	BasePriceCents – price charged per seat in cents.
type Showtime struct {
	ID             uint64    // showtimes.id
	MovieID        uint64    // showtimes.movie_id
	TheaterID      uint64    // showtimes.theater_id
	StartsAt       time.Time // showtimes.starts_at
	BasePriceCents uint32    // showtimes.base_price_cents
	CreatedAt      time.Time // showtimes.created_at
	UpdatedAt      time.Time // showtimes.updated_at
}
