package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderCompleted OrderStatus = "completed"
	OrderDisputed  OrderStatus = "disputed"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrOrderNotCompleted = errors.New("order is not completed")
var ErrOrderConflict = errors.New("referenced record changed during checkout")

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Order is a completed checkout between one buyer and one seller.
type Order struct {
	ID          string          `json:"id"`
	BuyerID     string          `json:"buyer_id"`
	SellerID    string          `json:"seller_id"`
	Items       []OrderItem     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// IsParticipant reports whether userID is the buyer or the seller.
func (o *Order) IsParticipant(userID string) bool {
	return userID == o.BuyerID || userID == o.SellerID
}
