package model

import "time"

// Location is a venue that contains theaters and a concession catalog.
type Location struct {
	ID        uint64    // locations.id
	Name      string    // locations.name
	City      string    // locations.city
	Address   string    // locations.address
	CreatedAt time.Time // locations.created_at
	UpdatedAt time.Time // locations.updated_at
}

// Theater is a single screening room within a location. SeatCount declares
// the size of the fixed seat layout; provisioning enforces that the actual
// seat rows match it.
type Theater struct {
	ID         uint64    // theaters.id
	LocationID uint64    // theaters.location_id
	Name       string    // theaters.name
	SeatCount  uint32    // theaters.seat_count
	CreatedAt  time.Time // theaters.created_at
	UpdatedAt  time.Time // theaters.updated_at
}

// Movie is a catalog entry screened at one or more showtimes.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Description string    // movies.description
	DurationMin uint32    // movies.duration_min
	Rating      string    // movies.rating
	PosterURL   string    // movies.poster_url
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}

// FoodItem is a concession catalog entity scoped to one location. It has
// no reservation semantics.
type FoodItem struct {
	ID          uint64    // food_items.id
	LocationID  uint64    // food_items.location_id
	Name        string    // food_items.name
	Description string    // food_items.description
	PriceCents  uint32    // food_items.price_cents
	IsVegan     bool      // food_items.is_vegan
	ImageURL    string    // food_items.image_url
	CreatedAt   time.Time // food_items.created_at
	UpdatedAt   time.Time // food_items.updated_at
}

// Payment is a bare payment record attached to an order. There is no
// gateway integration; the row exists so purchases can be annotated with
// how they were settled.
type Payment struct {
	ID          uint64    // payments.id
	OrderID     uint64    // payments.order_id
	AmountCents uint32    // payments.amount_cents
	Method      string    // payments.method (CARD, CASH, ...)
	Reference   string    // payments.reference (uuid)
	Status      string    // payments.status
	CreatedAt   time.Time // payments.created_at
}
