package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/model"
	"github.com/cinefront/ticketing/internal/repository"
)

// ShowtimeHandler serves showtime CRUD. Showtimes are first-class
// records; tickets reference them by id rather than by a raw timestamp.
type ShowtimeHandler struct {
	Showtimes *repository.ShowtimeRepo
	Movies    *repository.MovieRepo
	Theaters  *repository.TheaterRepo
}

func NewShowtimeHandler(s *repository.ShowtimeRepo, m *repository.MovieRepo, t *repository.TheaterRepo) *ShowtimeHandler {
	return &ShowtimeHandler{Showtimes: s, Movies: m, Theaters: t}
}

type showtimeReq struct {
	MovieID        uint64 `json:"movie_id" validate:"required,min=1"`
	TheaterID      uint64 `json:"theater_id" validate:"required,min=1"`
	StartsAt       string `json:"starts_at" validate:"required"`
	BasePriceCents uint32 `json:"base_price_cents" validate:"required,min=1"`
}

func (h *ShowtimeHandler) parseStartsAt(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func (h *ShowtimeHandler) List(c echo.Context) error {
	var theaterID, movieID uint64
	if q := c.QueryParam("theater"); q != "" {
		n, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater filter"})
		}
		theaterID = n
	}
	if q := c.QueryParam("movie"); q != "" {
		n, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie filter"})
		}
		movieID = n
	}
	showtimes, err := h.Showtimes.List(c.Request().Context(), theaterID, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if showtimes == nil {
		showtimes = []model.Showtime{}
	}
	return c.JSON(http.StatusOK, showtimes)
}

func (h *ShowtimeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	s, err := h.Showtimes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ShowtimeHandler) Create(c echo.Context) error {
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	startsAt, err := h.parseStartsAt(req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Theaters.GetByID(ctx, req.TheaterID); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "theater does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	s := &model.Showtime{
		MovieID:        req.MovieID,
		TheaterID:      req.TheaterID,
		StartsAt:       startsAt,
		BasePriceCents: req.BasePriceCents,
	}
	if err := h.Showtimes.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showtime failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *ShowtimeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	startsAt, err := h.parseStartsAt(req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	err = h.Showtimes.Update(c.Request().Context(), id, req.MovieID, req.TheaterID, startsAt, req.BasePriceCents)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update showtime failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

func (h *ShowtimeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	if err := h.Showtimes.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete showtime failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
