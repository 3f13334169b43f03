package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")
var ErrInvalidPrice = errors.New("price must be a positive decimal")

// Product is a catalog listing owned by a seller.
type Product struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"seller_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
