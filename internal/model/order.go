package model

import "time"

// Order is the purchase record. It groups the tickets issued in one
// request together with any concession line items. Exactly one of UserID
// and GuestID identifies the purchaser: registered purchases carry the
// user id, anonymous purchases carry the opaque guest id supplied by the
// client.
//
// Tickets reference the order via tickets.order_id, so a multi-seat order
// is reconstructed exactly by joining on that column.
type Order struct {
	ID         uint64    // orders.id
	UserID     *uint64   // orders.user_id (nullable)
	GuestID    *string   // orders.guest_id (nullable)
	TheaterID  uint64    // orders.theater_id
	TotalCents uint32    // orders.total_cents
	CreatedAt  time.Time // orders.created_at
}

// OrderFoodItem is a line item associating an order with a food item.
// Quantity is stored explicitly; duplicate ids in a purchase request
// collapse into one row with the occurrence count.
type OrderFoodItem struct {
	ID             uint64 // order_food_items.id
	OrderID        uint64 // order_food_items.order_id
	FoodItemID     uint64 // order_food_items.food_item_id
	Quantity       uint32 // order_food_items.quantity
	UnitPriceCents uint32 // order_food_items.unit_price_cents
}
