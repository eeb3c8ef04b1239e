package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/middleware"
	"github.com/cinefront/ticketing/internal/repository"
)

// getUserID extracts the authenticated user id stored in the context by
// the JWT middleware. Claims decode as float64, so several numeric types
// are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// requestActor resolves the acting identity: the authenticated user when
// a JWT was presented, otherwise the guest id from the request header.
// The zero Actor means the caller is anonymous without a guest id.
func requestActor(c echo.Context) repository.Actor {
	if uid, err := getUserID(c); err == nil && uid != 0 {
		return repository.UserActor(uid)
	}
	if g := middleware.GuestID(c); g != "" {
		return repository.GuestActor(g)
	}
	return repository.Actor{}
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// dedupIDs drops zeros and duplicates while preserving order.
func dedupIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// countIDs collapses a list into unique ids with occurrence counts,
// preserving first-seen order.
func countIDs(ids []uint64) ([]uint64, map[uint64]uint32) {
	counts := make(map[uint64]uint32, len(ids))
	order := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	return order, counts
}
