package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// Money fields are stored as decimal strings; float64 would lose precision
// and the driver has no codec for decimal.Decimal.

type productDoc struct {
	ID          string    `bson:"_id,omitempty"`
	SellerID    string    `bson:"seller_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	Price       string    `bson:"price"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type lineItemDoc struct {
	ProductID   string `bson:"product_id"`
	ProductName string `bson:"product_name"`
	Quantity    int    `bson:"quantity"`
	UnitPrice   string `bson:"unit_price"`
	LineTotal   string `bson:"line_total"`
}

type cartDoc struct {
	UserID    string        `bson:"_id"`
	SellerID  string        `bson:"seller_id,omitempty"`
	Items     []lineItemDoc `bson:"items"`
	Total     string        `bson:"total"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

type orderDoc struct {
	ID          string        `bson:"_id,omitempty"`
	BuyerID     string        `bson:"buyer_id"`
	SellerID    string        `bson:"seller_id"`
	Items       []lineItemDoc `bson:"items"`
	Total       string        `bson:"total"`
	Status      string        `bson:"status"`
	CreatedAt   time.Time     `bson:"created_at"`
	CompletedAt *time.Time    `bson:"completed_at,omitempty"`
}

func toProductDoc(p *domain.Product) *productDoc {
	return &productDoc{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromProductDoc(d *productDoc) (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad stored price: %w", d.ID, err)
	}
	return &domain.Product{
		ID:          d.ID,
		SellerID:    d.SellerID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func toLineItemDocs(items []domain.CartItem) []lineItemDoc {
	docs := make([]lineItemDoc, 0, len(items))
	for _, it := range items {
		docs = append(docs, lineItemDoc{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.String(),
			LineTotal:   it.LineTotal.String(),
		})
	}
	return docs
}

func fromLineItemDocs(docs []lineItemDoc) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, 0, len(docs))
	for _, d := range docs {
		unit, err := decimal.NewFromString(d.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line %s: bad stored unit price: %w", d.ProductID, err)
		}
		line, err := decimal.NewFromString(d.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("line %s: bad stored line total: %w", d.ProductID, err)
		}
		items = append(items, domain.CartItem{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			UnitPrice:   unit,
			LineTotal:   line,
		})
	}
	return items, nil
}

func toCartDoc(c *domain.Cart) *cartDoc {
	return &cartDoc{
		UserID:    c.UserID,
		SellerID:  c.SellerID,
		Items:     toLineItemDocs(c.Items),
		Total:     c.Total.String(),
		UpdatedAt: c.UpdatedAt,
	}
}

func fromCartDoc(d *cartDoc) (*domain.Cart, error) {
	items, err := fromLineItemDocs(d.Items)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(d.Total)
	if err != nil {
		return nil, fmt.Errorf("cart %s: bad stored total: %w", d.UserID, err)
	}
	return &domain.Cart{
		UserID:    d.UserID,
		SellerID:  d.SellerID,
		Items:     items,
		Total:     total,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func toOrderDoc(o *domain.Order) *orderDoc {
	items := make([]lineItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, lineItemDoc{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.String(),
			LineTotal:   it.LineTotal.String(),
		})
	}
	return &orderDoc{
		ID:          o.ID,
		BuyerID:     o.BuyerID,
		SellerID:    o.SellerID,
		Items:       items,
		Total:       o.Total.String(),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		CompletedAt: o.CompletedAt,
	}
}

func fromOrderDoc(d *orderDoc) (*domain.Order, error) {
	total, err := decimal.NewFromString(d.Total)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad stored total: %w", d.ID, err)
	}
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		unit, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("order %s: bad stored unit price: %w", d.ID, err)
		}
		line, err := decimal.NewFromString(it.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("order %s: bad stored line total: %w", d.ID, err)
		}
		items = append(items, domain.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   unit,
			LineTotal:   line,
		})
	}
	return &domain.Order{
		ID:          d.ID,
		BuyerID:     d.BuyerID,
		SellerID:    d.SellerID,
		Items:       items,
		Total:       total,
		Status:      domain.OrderStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		CompletedAt: d.CompletedAt,
	}, nil
}
