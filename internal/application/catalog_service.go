package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/haggle/internal/domain"
	"github.com/bnema/haggle/internal/geo"
	"github.com/bnema/haggle/internal/ports"
)

type CatalogService struct {
	repo     ports.CatalogRepository
	ids      ports.IDGenerator
	distance domain.DistanceFunc
	strategy domain.Strategy
}

func NewCatalogService(repo ports.CatalogRepository, ids ports.IDGenerator, distance domain.DistanceFunc, delivery domain.Strategy) *CatalogService {
	if distance == nil {
		distance = geo.Haversine
	}
	if delivery == (domain.Strategy{}) {
		delivery = domain.DefaultDeliveryStrategy()
	}

	return &CatalogService{repo: repo, ids: ids, distance: distance, strategy: delivery}
}

func (s *CatalogService) AddShop(ctx context.Context, cmd AddShopCommand) (domain.Shop, error) {
	shop := domain.Shop{
		ID:       cmd.ID,
		Name:     strings.TrimSpace(cmd.Name),
		Location: cmd.Location,
	}
	if strings.TrimSpace(string(shop.ID)) == "" {
		shop.ID = domain.ShopID(s.ids.NewID())
	}
	if shop.Name == "" {
		return domain.Shop{}, fmt.Errorf("name is required")
	}

	if err := s.repo.SaveShop(ctx, shop); err != nil {
		return domain.Shop{}, fmt.Errorf("save shop: %w", err)
	}

	return shop, nil
}

func (s *CatalogService) AddProduct(ctx context.Context, cmd AddProductCommand) (domain.Product, error) {
	product := domain.Product{
		ID:                    cmd.ID,
		ShopID:                cmd.ShopID,
		Name:                  strings.TrimSpace(cmd.Name),
		Price:                 cmd.Price,
		MinPrice:              cmd.MinPrice,
		MaxDiscountPercentage: cmd.MaxDiscountPercentage,
		Negotiable:            cmd.Negotiable,
	}
	if strings.TrimSpace(string(product.ID)) == "" {
		product.ID = domain.ProductID(s.ids.NewID())
	}
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	if product.ShopID != "" {
		if _, err := s.repo.GetShop(ctx, product.ShopID); err != nil {
			return domain.Product{}, fmt.Errorf("get shop: %w", err)
		}
	}

	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return domain.Product{}, fmt.Errorf("save product: %w", err)
	}

	return product, nil
}

func (s *CatalogService) AddOrder(ctx context.Context, cmd AddOrderCommand) (domain.Order, error) {
	order := domain.Order{
		ID:               cmd.ID,
		ShopID:           cmd.ShopID,
		ProductID:        cmd.ProductID,
		Delivery:         cmd.Delivery,
		DeliveryPersonID: strings.TrimSpace(cmd.DeliveryPersonID),
		Status:           cmd.Status,
	}
	if strings.TrimSpace(string(order.ID)) == "" {
		order.ID = domain.OrderID(s.ids.NewID())
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if err := order.Validate(); err != nil {
		return domain.Order{}, err
	}

	if _, err := s.repo.GetShop(ctx, order.ShopID); err != nil {
		return domain.Order{}, fmt.Errorf("get shop: %w", err)
	}
	if order.ProductID != "" {
		if _, err := s.repo.GetProduct(ctx, order.ProductID); err != nil {
			return domain.Order{}, fmt.Errorf("get product: %w", err)
		}
	}

	if err := s.repo.SaveOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	return order, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})

	return products, nil
}

func (s *CatalogService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID < orders[j].ID
	})

	return orders, nil
}

// DeliveryQuote reports distance, timing and fee bounds for an order before
// any negotiation starts.
func (s *CatalogService) DeliveryQuote(ctx context.Context, id domain.OrderID) (DeliveryQuote, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return DeliveryQuote{}, fmt.Errorf("get order: %w", err)
	}

	shop, err := s.repo.GetShop(ctx, order.ShopID)
	if err != nil && !errors.Is(err, domain.ErrShopNotFound) {
		return DeliveryQuote{}, fmt.Errorf("get shop: %w", err)
	}

	bounds := domain.DeliveryBounds(shop.Location, order.Delivery, s.distance)
	quote := DeliveryQuote{
		OrderID:          order.ID,
		Bounds:           bounds,
		EstimatedMinutes: geo.DefaultDeliveryMinutes,
	}
	state, err := domain.NewState(domain.KindDelivery, bounds, s.strategy)
	if err != nil {
		return DeliveryQuote{}, fmt.Errorf("quote order %s: %w", order.ID, err)
	}
	quote.OpeningFee = domain.Open(state)

	if shop.Location == nil || order.Delivery == nil {
		return quote, nil
	}

	active, err := s.activeDeliveries(ctx, order)
	if err != nil {
		return DeliveryQuote{}, err
	}

	km := s.distance(shop.Location.Lat, shop.Location.Lng, order.Delivery.Lat, order.Delivery.Lng)
	quote.HasCoordinates = true
	quote.DistanceKm = km
	quote.Distance = geo.FormatDistance(km)
	quote.EstimatedMinutes = geo.DeliveryMinutes(km, active)
	quote.TravelMinutes = map[geo.TransportMode]int{
		geo.TransportWalk: geo.TravelMinutes(km, geo.TransportWalk),
		geo.TransportBike: geo.TravelMinutes(km, geo.TransportBike),
		geo.TransportCar:  geo.TravelMinutes(km, geo.TransportCar),
	}

	return quote, nil
}

func (s *CatalogService) activeDeliveries(ctx context.Context, order domain.Order) (int, error) {
	if order.DeliveryPersonID == "" {
		return 0, nil
	}

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("list orders: %w", err)
	}

	active := 0
	for _, other := range orders {
		if other.DeliveryPersonID == order.DeliveryPersonID && other.Status == domain.OrderStatusDelivering {
			active++
		}
	}

	return active, nil
}
