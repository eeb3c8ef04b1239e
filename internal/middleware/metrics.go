package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketing_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ticketing_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	seatHoldConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketing_seat_hold_conflicts_total",
		Help: "Seat reservation attempts rejected because another hold was live.",
	})

	ticketsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketing_tickets_issued_total",
		Help: "Tickets created through purchase or administrative issuance.",
	})
)

// CountHoldConflict records a rejected seat reservation.
func CountHoldConflict() { seatHoldConflicts.Inc() }

// CountTicketsIssued records n freshly issued tickets.
func CountTicketsIssued(n int) { ticketsIssued.Add(float64(n)) }

// Metrics records per-request counters and latency. The route label is
// the registered path pattern, not the raw URL, so cardinality stays
// bounded.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
