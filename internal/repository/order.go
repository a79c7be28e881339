package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/market/internal/domain"
)

// OrderRepository handles orders and their payments.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ListByBuyer returns the orders placed by a buyer, newest first.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]domain.OrderSummary, error) {
	orders := []domain.OrderSummary{}
	err := r.db.SelectContext(ctx, &orders,
		`SELECT o.id AS order_id, o.status, p.id AS product_id, p.name AS product_name,
		        p.price AS product_price, p.created_at AS register_date, p.location
		 FROM orders o
		 JOIN products p ON p.id = o.product_id
		 WHERE o.user_id = $1
		 ORDER BY o.created_at DESC, o.id DESC`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list orders of user %d: %w", buyerID, err)
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ProductID
	}
	images, err := imagesByProduct(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Images = imagesOrEmpty(images, orders[i].ProductID)
	}
	return orders, nil
}

// CreatePayment records a payment confirmation for an order.
func (r *OrderRepository) CreatePayment(ctx context.Context, p domain.Payment) (*domain.Payment, error) {
	var created domain.Payment
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO payments (order_id, amount, payment_key)
		 VALUES ($1, $2, $3)
		 RETURNING id, order_id, amount, payment_key, created_at`,
		p.OrderID, p.Amount, p.PaymentKey,
	).StructScan(&created)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.Errorf(domain.ErrNotFound, "order %d not found", p.OrderID)
		}
		if isUniqueViolation(err) {
			return nil, domain.Errorf(domain.ErrConflict, "payment %s has already been confirmed", p.PaymentKey)
		}
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	return &created, nil
}
