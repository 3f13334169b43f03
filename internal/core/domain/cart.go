package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrCartEmpty = errors.New("cart is empty")
var ErrCartSellerMismatch = errors.New("cart items must belong to a single seller")
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartItem is one line in a cart. Each line carries the unit price of its own
// product; the line total is unit price times quantity.
type CartItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Cart is the mutable pre-checkout aggregate of one buyer. One seller per
// cart: checkout produces a single buyer/seller order.
type Cart struct {
	UserID    string          `json:"user_id"`
	SellerID  string          `json:"seller_id,omitempty"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Recalculate recomputes every line total and the cart total from the lines.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for i := range c.Items {
		c.Items[i].LineTotal = c.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity)))
		total = total.Add(c.Items[i].LineTotal)
	}
	c.Total = total
}
