package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cinefront/ticketing/internal/config"
	"github.com/cinefront/ticketing/internal/database"
	"github.com/cinefront/ticketing/internal/handler"
	"github.com/cinefront/ticketing/internal/middleware"
	"github.com/cinefront/ticketing/internal/queue"
	"github.com/cinefront/ticketing/internal/repository"
	"github.com/cinefront/ticketing/internal/router"
	"github.com/cinefront/ticketing/internal/validate"
	"github.com/cinefront/ticketing/internal/worker"
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migrate failed: %v", err)
	}

	rdb := config.NewRedisClient()

	// repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	seats := repository.NewSeatRepo(db)
	tickets := repository.NewTicketRepo(db)
	orders := repository.NewOrderRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	movies := repository.NewMovieRepo(db)
	locations := repository.NewLocationRepo(db)
	theaters := repository.NewTheaterRepo(db)
	food := repository.NewFoodRepo(db)
	payments := repository.NewPaymentRepo(db)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Seats:     handler.NewSeatHandler(cfg, seats, theaters),
		Tickets:   handler.NewTicketHandler(tickets, seats, showtimes),
		Orders:    handler.NewOrderHandler(cfg, orders, tickets, seats, showtimes, food),
		Movies:    handler.NewMovieHandler(movies),
		Locations: handler.NewLocationHandler(locations, theaters),
		Theaters:  handler.NewTheaterHandler(theaters, locations),
		Food:      handler.NewFoodHandler(food),
		Showtimes: handler.NewShowtimeHandler(showtimes, movies, theaters),
		Payments:  handler.NewPaymentHandler(payments, orders),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, h.Auth, cfg.JWTSecret)
	router.RegisterPublic(e, h, cfg.JWTSecret, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterCustomer(e, h, cfg.JWTSecret)
	router.RegisterAdmin(e, h, cfg.JWTSecret)

	sweeper, err := worker.StartHoldSweeper(seats, envSweepInterval())
	if err != nil {
		log.Fatalf("hold sweeper failed to start: %v", err)
	}
	defer func() { _ = sweeper.Shutdown() }()

	if cfg.AMQPURL != "" {
		go queue.StartOrderConsumer(cfg.AMQPURL)
	}

	addr := ":" + cfg.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func envSweepInterval() time.Duration {
	if v := os.Getenv("HOLD_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return time.Minute
}
