package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/model"
	"github.com/cinefront/ticketing/internal/repository"
)

// LocationHandler serves venue CRUD plus the nested theater listing.
type LocationHandler struct {
	Locations *repository.LocationRepo
	Theaters  *repository.TheaterRepo
}

func NewLocationHandler(l *repository.LocationRepo, t *repository.TheaterRepo) *LocationHandler {
	return &LocationHandler{Locations: l, Theaters: t}
}

type locationReq struct {
	Name    string `json:"name" validate:"required"`
	City    string `json:"city" validate:"required"`
	Address string `json:"address"`
}

func (h *LocationHandler) List(c echo.Context) error {
	locations, err := h.Locations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if locations == nil {
		locations = []model.Location{}
	}
	return c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	l, err := h.Locations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, l)
}

// ListTheaters handles GET /api/locations/:id/theaters.
func (h *LocationHandler) ListTheaters(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	if _, err := h.Locations.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	theaters, err := h.Theaters.List(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if theaters == nil {
		theaters = []model.Theater{}
	}
	return c.JSON(http.StatusOK, theaters)
}

func (h *LocationHandler) Create(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	l := &model.Location{Name: req.Name, City: req.City, Address: req.Address}
	if err := h.Locations.Create(c.Request().Context(), l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create location failed"})
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LocationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	l := &model.Location{ID: id, Name: req.Name, City: req.City, Address: req.Address}
	if err := h.Locations.Update(c.Request().Context(), l); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update location failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

func (h *LocationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	if err := h.Locations.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete location failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
