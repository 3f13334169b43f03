package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/arbitex/marketplace/internal/api/metrics"
	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
)

// OrderService owns checkout and the order lifecycle.
type OrderService struct {
	orders   ports.OrderRepository
	carts    ports.CartRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, carts ports.CartRepository, products ports.ProductRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products, logger: logger}
}

// Checkout snapshots the cart into an order at current product prices and
// empties the cart. A product vanishing mid-checkout aborts the whole
// operation; nothing is persisted.
func (s *OrderService) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	total := decimal.Zero
	for _, line := range cart.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				s.logger.Warn().Str("user_id", userID).Str("product_id", line.ProductID).Msg("product vanished during checkout")
				return nil, domain.ErrOrderConflict
			}
			return nil, err
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			LineTotal:   lineTotal,
		})
		total = total.Add(lineTotal)
	}

	order := &domain.Order{
		BuyerID:   userID,
		SellerID:  cart.SellerID,
		Items:     items,
		Total:     total,
		Status:    domain.OrderCreated,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to clear cart after checkout")
	}

	metrics.OrdersCheckedOutTotal.Inc()
	s.logger.Info().Str("order_id", order.ID).Str("buyer_id", userID).Str("total", total.String()).Msg("order created")

	return order, nil
}

// Get returns the order to its participants and admins.
func (s *OrderService) Get(ctx context.Context, orderID, callerID, callerRole string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if callerRole != domain.RoleAdmin && !order.IsParticipant(callerID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// List returns orders where the caller is buyer or seller.
func (s *OrderService) List(ctx context.Context, callerID string, page, limit int) ([]*domain.Order, int64, error) {
	return s.orders.ListByUser(ctx, callerID, page, limit)
}

// Complete lets the buyer confirm receipt; completed orders are disputable.
func (s *OrderService) Complete(ctx context.Context, orderID, callerID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != callerID {
		return nil, domain.ErrForbidden
	}

	completedAt := time.Now().UTC()
	if err := s.orders.Complete(ctx, orderID, completedAt); err != nil {
		return nil, err
	}

	order.Status = domain.OrderCompleted
	order.CompletedAt = &completedAt
	s.logger.Info().Str("order_id", orderID).Msg("order completed")
	return order, nil
}
