package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/haggle/internal/domain"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type sequenceIDs struct {
	mu   sync.Mutex
	ids  []string
	next int
}

func (s *sequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids[s.next%len(s.ids)]
	s.next++
	return id
}

type inMemoryCatalog struct {
	shops    map[domain.ShopID]domain.Shop
	products map[domain.ProductID]domain.Product
	orders   map[domain.OrderID]domain.Order
}

func newInMemoryCatalog() *inMemoryCatalog {
	return &inMemoryCatalog{
		shops:    map[domain.ShopID]domain.Shop{},
		products: map[domain.ProductID]domain.Product{},
		orders:   map[domain.OrderID]domain.Order{},
	}
}

func (c *inMemoryCatalog) GetShop(_ context.Context, id domain.ShopID) (domain.Shop, error) {
	shop, ok := c.shops[id]
	if !ok {
		return domain.Shop{}, domain.ErrShopNotFound
	}
	return shop, nil
}

func (c *inMemoryCatalog) SaveShop(_ context.Context, shop domain.Shop) error {
	c.shops[shop.ID] = shop
	return nil
}

func (c *inMemoryCatalog) GetProduct(_ context.Context, id domain.ProductID) (domain.Product, error) {
	product, ok := c.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (c *inMemoryCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(c.products))
	for _, product := range c.products {
		out = append(out, product)
	}
	return out, nil
}

func (c *inMemoryCatalog) SaveProduct(_ context.Context, product domain.Product) error {
	c.products[product.ID] = product
	return nil
}

func (c *inMemoryCatalog) GetOrder(_ context.Context, id domain.OrderID) (domain.Order, error) {
	order, ok := c.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (c *inMemoryCatalog) ListOrders(_ context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(c.orders))
	for _, order := range c.orders {
		out = append(out, order)
	}
	return out, nil
}

func (c *inMemoryCatalog) SaveOrder(_ context.Context, order domain.Order) error {
	c.orders[order.ID] = order
	return nil
}

type inMemoryNegotiations struct {
	mu    sync.Mutex
	items map[domain.NegotiationID]domain.Negotiation
}

func (r *inMemoryNegotiations) GetByID(_ context.Context, id domain.NegotiationID) (domain.Negotiation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	negotiation, ok := r.items[id]
	if !ok {
		return domain.Negotiation{}, domain.ErrNegotiationNotFound
	}
	return negotiation, nil
}

func (r *inMemoryNegotiations) List(_ context.Context) ([]domain.Negotiation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Negotiation, 0, len(r.items))
	for _, negotiation := range r.items {
		out = append(out, negotiation)
	}
	return out, nil
}

func (r *inMemoryNegotiations) Save(_ context.Context, negotiation domain.Negotiation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items == nil {
		r.items = map[domain.NegotiationID]domain.Negotiation{}
	}
	r.items[negotiation.ID] = negotiation
	return nil
}

func seededCatalog() *inMemoryCatalog {
	catalog := newInMemoryCatalog()
	catalog.shops["shop-1"] = domain.Shop{ID: "shop-1", Name: "Corner Store", Location: &domain.Coordinates{Lat: 48.8566, Lng: 2.3522}}
	catalog.shops["shop-2"] = domain.Shop{ID: "shop-2", Name: "Pop-up"}
	catalog.products["lamp"] = domain.Product{
		ID:                    "lamp",
		ShopID:                "shop-1",
		Name:                  "Desk lamp",
		Price:                 100,
		MinPrice:              70,
		MaxDiscountPercentage: 30,
		Negotiable:            true,
	}
	catalog.products["fixed"] = domain.Product{
		ID:       "fixed",
		ShopID:   "shop-1",
		Name:     "Fixed price mug",
		Price:    12,
		MinPrice: 12,
	}
	catalog.orders["ord-1"] = domain.Order{
		ID:       "ord-1",
		ShopID:   "shop-1",
		Delivery: &domain.Coordinates{Lat: 48.8566, Lng: 2.4822},
		Status:   domain.OrderStatusPending,
	}
	catalog.orders["ord-2"] = domain.Order{ID: "ord-2", ShopID: "shop-2", Status: domain.OrderStatusPending}
	catalog.orders["ord-3"] = domain.Order{ID: "ord-3", ShopID: "shop-2", Status: domain.OrderStatusDelivered}
	return catalog
}

func mockAnyNegotiation() interface{} {
	return mock.AnythingOfType("domain.Negotiation")
}
