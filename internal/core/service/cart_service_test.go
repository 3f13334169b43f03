package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/arbitex/marketplace/internal/core/domain"
)

func newCartSvc(carts *stubCartRepo, products *stubProductRepo) *CartService {
	return NewCartService(carts, products, zerolog.Nop())
}

func seededProduct(repo *stubProductRepo, id, sellerID, name, price string) *domain.Product {
	p := &domain.Product{
		ID:        id,
		SellerID:  sellerID,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		CreatedAt: time.Now().UTC(),
	}
	repo.byID[id] = p
	return p
}

func TestCartService_AddItem_EachLinePricedFromItsOwnProduct(t *testing.T) {
	products := newStubProductRepo()
	seededProduct(products, "p1", "seller", "Keyboard", "49.99")
	seededProduct(products, "p2", "seller", "Mouse", "19.90")

	svc := newCartSvc(newStubCartRepo(), products)
	if _, err := svc.AddItem(context.Background(), "buyer", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := svc.AddItem(context.Background(), "buyer", "p2", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if !cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("49.99")) {
		t.Errorf("unexpected unit price for p1: %s", cart.Items[0].UnitPrice)
	}
	if !cart.Items[1].UnitPrice.Equal(decimal.RequireFromString("19.90")) {
		t.Errorf("unexpected unit price for p2: %s", cart.Items[1].UnitPrice)
	}
	if !cart.Items[0].LineTotal.Equal(decimal.RequireFromString("99.98")) {
		t.Errorf("unexpected line total for p1: %s", cart.Items[0].LineTotal)
	}
	if !cart.Total.Equal(decimal.RequireFromString("119.88")) {
		t.Errorf("expected total 119.88, got %s", cart.Total)
	}
}

func TestCartService_AddItem_MergesExistingLine(t *testing.T) {
	products := newStubProductRepo()
	seededProduct(products, "p1", "seller", "Keyboard", "10")

	svc := newCartSvc(newStubCartRepo(), products)
	if _, err := svc.AddItem(context.Background(), "buyer", "p1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := svc.AddItem(context.Background(), "buyer", "p1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", cart.Items[0].Quantity)
	}
	if !cart.Total.Equal(decimal.RequireFromString("30")) {
		t.Errorf("expected total 30, got %s", cart.Total)
	}
}

func TestCartService_AddItem_SingleSellerPerCart(t *testing.T) {
	products := newStubProductRepo()
	seededProduct(products, "p1", "seller_a", "Keyboard", "10")
	seededProduct(products, "p2", "seller_b", "Mouse", "5")

	svc := newCartSvc(newStubCartRepo(), products)
	if _, err := svc.AddItem(context.Background(), "buyer", "p1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), "buyer", "p2", 1); !errors.Is(err, domain.ErrCartSellerMismatch) {
		t.Errorf("expected ErrCartSellerMismatch, got: %v", err)
	}
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	svc := newCartSvc(newStubCartRepo(), newStubProductRepo())
	if _, err := svc.AddItem(context.Background(), "buyer", "p1", 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got: %v", err)
	}
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	svc := newCartSvc(newStubCartRepo(), newStubProductRepo())
	if _, err := svc.AddItem(context.Background(), "buyer", "missing", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestCartService_RemoveItem(t *testing.T) {
	products := newStubProductRepo()
	seededProduct(products, "p1", "seller_a", "Keyboard", "10")
	carts := newStubCartRepo()

	svc := newCartSvc(carts, products)
	if _, err := svc.AddItem(context.Background(), "buyer", "p1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := svc.RemoveItem(context.Background(), "buyer", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(cart.Items))
	}
	if !cart.Total.IsZero() {
		t.Errorf("expected zero total, got %s", cart.Total)
	}
	if cart.SellerID != "" {
		t.Error("expected seller binding cleared on empty cart")
	}

	// An empty cart accepts a different seller again.
	seededProduct(products, "p2", "seller_b", "Mouse", "5")
	if _, err := svc.AddItem(context.Background(), "buyer", "p2", 1); err != nil {
		t.Errorf("expected empty cart to accept a new seller, got: %v", err)
	}
}
