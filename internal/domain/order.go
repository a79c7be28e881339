package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus int

const (
	OrderStatusPreparing         OrderStatus = 1
	OrderStatusOnSale            OrderStatus = 2
	OrderStatusOrdered           OrderStatus = 3
	OrderStatusCanceled          OrderStatus = 4
	OrderStatusPaid              OrderStatus = 5
	OrderStatusShipped           OrderStatus = 6
	OrderStatusDelivered         OrderStatus = 7
	OrderStatusCompleted         OrderStatus = 8
	OrderStatusReturnRequested   OrderStatus = 9
	OrderStatusReturned          OrderStatus = 10
	OrderStatusExchangeRequested OrderStatus = 11
	OrderStatusExchanged         OrderStatus = 12
	OrderStatusRefunded          OrderStatus = 13
)

// OrderStatusSold is the status counted as a completed sale in seller statistics.
const OrderStatusSold = OrderStatusCompleted

var orderStatusNames = map[OrderStatus]string{
	OrderStatusPreparing:         "preparing",
	OrderStatusOnSale:            "on_sale",
	OrderStatusOrdered:           "ordered",
	OrderStatusCanceled:          "canceled",
	OrderStatusPaid:              "paid",
	OrderStatusShipped:           "shipped",
	OrderStatusDelivered:         "delivered",
	OrderStatusCompleted:         "completed",
	OrderStatusReturnRequested:   "return_requested",
	OrderStatusReturned:          "returned",
	OrderStatusExchangeRequested: "exchange_requested",
	OrderStatusExchanged:         "exchanged",
	OrderStatusRefunded:          "refunded",
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Order is a purchase of a product by a buyer.
type Order struct {
	ID        int64       `json:"id" db:"id"`
	BuyerID   int64       `json:"buyerId" db:"user_id"`
	ProductID int64       `json:"productId" db:"product_id"`
	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

// OrderSummary is an order row in the buyer's order list.
type OrderSummary struct {
	OrderID      int64           `json:"orderId" db:"order_id"`
	Status       OrderStatus     `json:"status" db:"status"`
	ProductID    int64           `json:"productId" db:"product_id"`
	ProductName  string          `json:"productName" db:"product_name"`
	ProductPrice decimal.Decimal `json:"productPrice" db:"product_price"`
	RegisterDate time.Time       `json:"registerDate" db:"register_date"`
	Location     string          `json:"location" db:"location"`
	Images       []string        `json:"images" db:"-"`
}

// Payment records a Toss payment confirmation for an order.
type Payment struct {
	ID         int64     `json:"id" db:"id"`
	OrderID    int64     `json:"orderId" db:"order_id"`
	Amount     int64     `json:"amount" db:"amount"`
	PaymentKey string    `json:"paymentKey" db:"payment_key"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
