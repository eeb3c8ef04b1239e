package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cinefront/ticketing/internal/model"
	"github.com/cinefront/ticketing/internal/repository"
)

// PaymentHandler records how orders were settled. No gateway is involved;
// a payment is a plain annotation row with a generated uuid reference.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
	Orders   *repository.OrderRepo
}

func NewPaymentHandler(p *repository.PaymentRepo, o *repository.OrderRepo) *PaymentHandler {
	return &PaymentHandler{Payments: p, Orders: o}
}

type paymentReq struct {
	OrderID     uint64 `json:"order_id" validate:"required,min=1"`
	AmountCents uint32 `json:"amount_cents" validate:"required,min=1"`
	Method      string `json:"method"`
}

func (h *PaymentHandler) List(c echo.Context) error {
	var orderID uint64
	if q := c.QueryParam("order"); q != "" {
		n, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order filter"})
		}
		orderID = n
	}
	payments, err := h.Payments.List(c.Request().Context(), orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	p, err := h.Payments.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) Create(c echo.Context) error {
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.Orders.GetByID(ctx, req.OrderID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "order does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = "CARD"
	}
	p := &model.Payment{
		OrderID:     req.OrderID,
		AmountCents: req.AmountCents,
		Method:      method,
		Reference:   uuid.NewString(),
		Status:      "RECORDED",
	}
	if err := h.Payments.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create payment failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	if err := h.Payments.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete payment failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
