package repository

import "github.com/cinefront/ticketing/internal/model"

// Actor identifies the party performing a reservation or purchase: either
// a registered user (UserID non-zero) or an anonymous client carrying an
// opaque guest id. Exactly one of the two is set.
type Actor struct {
	UserID  uint64
	GuestID string
}

// UserActor builds an Actor for a registered user.
func UserActor(id uint64) Actor { return Actor{UserID: id} }

// GuestActor builds an Actor for an anonymous guest identity.
func GuestActor(id string) Actor { return Actor{GuestID: id} }

// IsZero reports whether no identity is present.
func (a Actor) IsZero() bool { return a.UserID == 0 && a.GuestID == "" }

// userIDValue returns the SQL value for the reserved_by_user_id column.
func (a Actor) userIDValue() interface{} {
	if a.UserID == 0 {
		return nil
	}
	return a.UserID
}

// guestIDValue returns the SQL value for the reserved_by_guest column.
func (a Actor) guestIDValue() interface{} {
	if a.GuestID == "" {
		return nil
	}
	return a.GuestID
}

// Holds reports whether the seat's current hold belongs to this actor.
// It checks ownership only; callers decide whether the hold is still live.
func (a Actor) Holds(s *model.Seat) bool {
	if a.UserID != 0 {
		return s.ReservedByUserID != nil && *s.ReservedByUserID == a.UserID
	}
	if a.GuestID != "" {
		return s.ReservedByGuest != nil && *s.ReservedByGuest == a.GuestID
	}
	return false
}
