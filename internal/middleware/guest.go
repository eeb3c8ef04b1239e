package middleware

import (
	"regexp"

	"github.com/labstack/echo/v4"
)

// GuestIDHeader carries the opaque identity of an anonymous client.
// Guests mint their own id and present it on every call; the server
// treats it as a stable key for holds and purchase history.
const GuestIDHeader = "X-Guest-ID"

var guestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// GuestID returns the validated guest id from the request, or "" when the
// header is absent or malformed.
func GuestID(c echo.Context) string {
	g := c.Request().Header.Get(GuestIDHeader)
	if g == "" || !guestIDPattern.MatchString(g) {
		return ""
	}
	return g
}
