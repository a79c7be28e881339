package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/sumire/market/internal/domain"
)

// OrderStore defines the order data access consumed by OrderService.
type OrderStore interface {
	ListByBuyer(ctx context.Context, buyerID int64) ([]domain.OrderSummary, error)
	CreatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error)
}

// OrderService lists orders and records payment confirmations.
type OrderService struct {
	orders OrderStore
	events EventPublisher
	logger *slog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders OrderStore, events EventPublisher, logger *slog.Logger) *OrderService {
	return &OrderService{orders: orders, events: events, logger: logger}
}

// ListMine returns the orders placed by the buyer.
func (s *OrderService) ListMine(ctx context.Context, buyerID int64) ([]domain.OrderSummary, error) {
	return s.orders.ListByBuyer(ctx, buyerID)
}

// ConfirmPayment records a Toss payment confirmation for an order.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID, amount int64, paymentKey string) (*domain.Payment, error) {
	if paymentKey == "" {
		return nil, &domain.ValidationError{Field: "paymentKey", Message: "is required"}
	}
	if amount < 0 {
		return nil, &domain.ValidationError{Field: "amount", Message: "must not be negative"}
	}

	payment, err := s.orders.CreatePayment(ctx, domain.Payment{
		OrderID:    orderID,
		Amount:     amount,
		PaymentKey: paymentKey,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment confirmed", "order_id", orderID, "payment_id", payment.ID)
	publish(ctx, s.events, s.logger, EventPaymentConfirmed, strconv.FormatInt(orderID, 10), payment)
	return payment, nil
}
