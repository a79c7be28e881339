package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sumire/market/internal/service"
)

// OrderHandler handles order and payment endpoints.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListMine returns the caller's orders.
func (h *OrderHandler) ListMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListMine(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return OK(c, orders)
}

type confirmPaymentRequest struct {
	OrderID    int64  `json:"orderId" validate:"required,gt=0"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	PaymentKey string `json:"paymentKey" validate:"required,max=200"`
}

// ConfirmPayment records a Toss payment confirmation.
func (h *OrderHandler) ConfirmPayment(c echo.Context) error {
	var req confirmPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.orders.ConfirmPayment(c.Request().Context(), req.OrderID, req.Amount, req.PaymentKey); err != nil {
		return err
	}
	return OK(c, nil)
}
