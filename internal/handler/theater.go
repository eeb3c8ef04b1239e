package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/model"
	"github.com/cinefront/ticketing/internal/repository"
)

// TheaterHandler serves screening room CRUD.
type TheaterHandler struct {
	Theaters  *repository.TheaterRepo
	Locations *repository.LocationRepo
}

func NewTheaterHandler(t *repository.TheaterRepo, l *repository.LocationRepo) *TheaterHandler {
	return &TheaterHandler{Theaters: t, Locations: l}
}

type theaterReq struct {
	LocationID uint64 `json:"location_id" validate:"required,min=1"`
	Name       string `json:"name" validate:"required"`
	SeatCount  uint32 `json:"seat_count"`
}

func (h *TheaterHandler) List(c echo.Context) error {
	theaters, err := h.Theaters.List(c.Request().Context(), 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if theaters == nil {
		theaters = []model.Theater{}
	}
	return c.JSON(http.StatusOK, theaters)
}

func (h *TheaterHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	t, err := h.Theaters.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TheaterHandler) Create(c echo.Context) error {
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := h.Locations.GetByID(c.Request().Context(), req.LocationID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "location does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	t := &model.Theater{LocationID: req.LocationID, Name: req.Name, SeatCount: req.SeatCount}
	if err := h.Theaters.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theater failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TheaterHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t := &model.Theater{ID: id, LocationID: req.LocationID, Name: req.Name, SeatCount: req.SeatCount}
	if err := h.Theaters.Update(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update theater failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

func (h *TheaterHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	if err := h.Theaters.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete theater failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
