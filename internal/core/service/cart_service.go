package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
)

// CartService owns the pre-checkout cart. Every mutation reprices lines from
// their own products and recomputes the total before the single write.
type CartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewCartService(carts ports.CartRepository, products ports.ProductRepository, logger zerolog.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// AddItem adds quantity of a product to the cart, merging with an existing
// line for the same product. One seller per cart.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) > 0 && cart.SellerID != product.SellerID {
		return nil, domain.ErrCartSellerMismatch
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].UnitPrice = product.Price
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.Price,
		})
	}

	cart.SellerID = product.SellerID
	cart.Recalculate()
	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("user_id", userID).Str("product_id", productID).Int("quantity", quantity).Msg("cart item added")
	return cart, nil
}

// RemoveItem drops a product line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	if len(cart.Items) == 0 {
		cart.SellerID = ""
	}
	cart.Recalculate()
	cart.UpdatedAt = time.Now().UTC()

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.carts.Get(ctx, userID)
}
