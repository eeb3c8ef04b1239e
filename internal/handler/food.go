package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/model"
	"github.com/cinefront/ticketing/internal/repository"
)

// FoodHandler serves the concession catalog. The optional location query
// parameter narrows the listing to one venue.
type FoodHandler struct {
	Food *repository.FoodRepo
}

func NewFoodHandler(f *repository.FoodRepo) *FoodHandler { return &FoodHandler{Food: f} }

type foodReq struct {
	LocationID  uint64 `json:"location_id" validate:"required,min=1"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	PriceCents  uint32 `json:"price_cents" validate:"required,min=1"`
	IsVegan     bool   `json:"is_vegan"`
	ImageURL    string `json:"image_url"`
}

func (h *FoodHandler) List(c echo.Context) error {
	var locationID uint64
	if q := c.QueryParam("location"); q != "" {
		n, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location filter"})
		}
		locationID = n
	}
	items, err := h.Food.List(c.Request().Context(), locationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if items == nil {
		items = []model.FoodItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *FoodHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid food item id"})
	}
	f, err := h.Food.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFoodItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "food item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FoodHandler) Create(c echo.Context) error {
	var req foodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	f := &model.FoodItem{
		LocationID:  req.LocationID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		IsVegan:     req.IsVegan,
		ImageURL:    req.ImageURL,
	}
	if err := h.Food.Create(c.Request().Context(), f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create food item failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *FoodHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid food item id"})
	}
	var req foodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	f := &model.FoodItem{
		ID:          id,
		LocationID:  req.LocationID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		IsVegan:     req.IsVegan,
		ImageURL:    req.ImageURL,
	}
	if err := h.Food.Update(c.Request().Context(), f); err != nil {
		if errors.Is(err, repository.ErrFoodItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "food item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update food item failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

func (h *FoodHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid food item id"})
	}
	if err := h.Food.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrFoodItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "food item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete food item failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
