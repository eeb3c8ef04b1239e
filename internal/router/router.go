// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/handler"
	"github.com/cinefront/ticketing/internal/middleware"
)

// Handlers groups every handler the API needs, so registration functions
// stay short and main builds one value.
type Handlers struct {
	Auth      *handler.AuthHandler
	Seats     *handler.SeatHandler
	Tickets   *handler.TicketHandler
	Orders    *handler.OrderHandler
	Movies    *handler.MovieHandler
	Locations *handler.LocationHandler
	Theaters  *handler.TheaterHandler
	Food      *handler.FoodHandler
	Showtimes *handler.ShowtimeHandler
	Payments  *handler.PaymentHandler
}

// RegisterRoutes registers operational endpoints: liveness and metrics.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", middleware.MetricsHandler())
}

// RegisterAuth registers the auth endpoints and the authenticated /api/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/api")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse and purchase endpoints.
// Purchase and hold endpoints accept either a JWT or a guest header, so
// they sit behind OptionalAuth rather than JWTAuth. cacheMW wraps only the
// catalog reads; seat and showtime availability stays uncached.
func RegisterPublic(e *echo.Echo, h Handlers, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	api := e.Group("/api", cacheMW)

	// catalog reads
	api.GET("/movies", h.Movies.List)
	api.GET("/movies/:id", h.Movies.Get)
	api.GET("/locations", h.Locations.List)
	api.GET("/locations/:id", h.Locations.Get)
	api.GET("/locations/:id/theaters", h.Locations.ListTheaters)
	api.GET("/theaters", h.Theaters.List)
	api.GET("/theaters/:id", h.Theaters.Get)
	api.GET("/food", h.Food.List)
	api.GET("/food/:id", h.Food.Get)
	api.GET("/showtimes", h.Showtimes.List)
	api.GET("/showtimes/:id", h.Showtimes.Get)
	api.GET("/payments", h.Payments.List)
	api.GET("/payments/:id", h.Payments.Get)

	// seat registry and per-showtime availability, never cached
	e.GET("/api/seats/theater/:theaterID", h.Seats.List)
	e.GET("/api/seats/theater/:theaterID/available", h.Seats.Available)
	e.GET("/api/showtimes/:id/seats", h.Tickets.ShowtimeSeats)

	// holds and purchases, for users and guests alike
	anon := e.Group("/api", middleware.OptionalAuth(jwtSecret))
	anon.POST("/seats/:theaterID/reserve", h.Seats.Reserve)
	anon.POST("/seats/:theaterID/release", h.Seats.Release)
	anon.POST("/orders", h.Orders.Create)
	anon.GET("/orders/guest/:guestID", h.Orders.ListForGuest)
}

// RegisterCustomer registers endpoints that require a logged-in user.
func RegisterCustomer(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/api")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/orders/user", h.Orders.ListForUser)
}

// RegisterAdmin registers catalog writes, ticket administration and
// maintenance behind the ADMIN role.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/api")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/movies", h.Movies.Create)
	g.PUT("/movies/:id", h.Movies.Update)
	g.DELETE("/movies/:id", h.Movies.Delete)

	g.POST("/locations", h.Locations.Create)
	g.PUT("/locations/:id", h.Locations.Update)
	g.DELETE("/locations/:id", h.Locations.Delete)

	g.POST("/theaters", h.Theaters.Create)
	g.PUT("/theaters/:id", h.Theaters.Update)
	g.DELETE("/theaters/:id", h.Theaters.Delete)

	g.POST("/food", h.Food.Create)
	g.PUT("/food/:id", h.Food.Update)
	g.DELETE("/food/:id", h.Food.Delete)

	g.POST("/showtimes", h.Showtimes.Create)
	g.PUT("/showtimes/:id", h.Showtimes.Update)
	g.DELETE("/showtimes/:id", h.Showtimes.Delete)

	g.POST("/payments", h.Payments.Create)
	g.DELETE("/payments/:id", h.Payments.Delete)

	g.POST("/seats/theater/:theaterID/add", h.Seats.Provision)

	g.POST("/tickets", h.Tickets.Create)
	g.GET("/tickets/:id", h.Tickets.Get)
	g.DELETE("/tickets/:id", h.Tickets.Delete)

	g.POST("/admin/maintenance/orders", h.Orders.Reconcile)
}
