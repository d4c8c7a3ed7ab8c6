package toml

import (
	"context"
	"sync"

	"github.com/bnema/haggle/internal/domain"
	"github.com/bnema/haggle/internal/ports"
	"github.com/spf13/viper"
)

const catalogLabel = "catalog"

type CatalogRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

func NewCatalogRepository(cfg *viper.Viper) (*CatalogRepository, error) {
	path, err := resolvePath(cfg, CatalogPathKey, catalogFile)
	if err != nil {
		return nil, err
	}

	return &CatalogRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *CatalogRepository) GetShop(ctx context.Context, id domain.ShopID) (domain.Shop, error) {
	file, err := r.read(ctx)
	if err != nil {
		return domain.Shop{}, err
	}

	for _, entry := range file.Shops {
		if entry.ID == string(id) {
			return fromShopSchema(entry), nil
		}
	}

	return domain.Shop{}, domain.ErrShopNotFound
}

func (r *CatalogRepository) SaveShop(ctx context.Context, shop domain.Shop) error {
	return r.update(ctx, func(file *catalogFileSchema) {
		encoded := toShopSchema(shop)
		for i := range file.Shops {
			if file.Shops[i].ID == encoded.ID {
				file.Shops[i] = encoded
				return
			}
		}
		file.Shops = append(file.Shops, encoded)
	})
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	file, err := r.read(ctx)
	if err != nil {
		return domain.Product{}, err
	}

	for _, entry := range file.Products {
		if entry.ID == string(id) {
			return fromProductSchema(entry), nil
		}
	}

	return domain.Product{}, domain.ErrProductNotFound
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	file, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(file.Products))
	for _, entry := range file.Products {
		products = append(products, fromProductSchema(entry))
	}

	return products, nil
}

func (r *CatalogRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	return r.update(ctx, func(file *catalogFileSchema) {
		encoded := toProductSchema(product)
		for i := range file.Products {
			if file.Products[i].ID == encoded.ID {
				file.Products[i] = encoded
				return
			}
		}
		file.Products = append(file.Products, encoded)
	})
}

func (r *CatalogRepository) GetOrder(ctx context.Context, id domain.OrderID) (domain.Order, error) {
	file, err := r.read(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	for _, entry := range file.Orders {
		if entry.ID == string(id) {
			return fromOrderSchema(entry), nil
		}
	}

	return domain.Order{}, domain.ErrOrderNotFound
}

func (r *CatalogRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	file, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(file.Orders))
	for _, entry := range file.Orders {
		orders = append(orders, fromOrderSchema(entry))
	}

	return orders, nil
}

func (r *CatalogRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	return r.update(ctx, func(file *catalogFileSchema) {
		encoded := toOrderSchema(order)
		for i := range file.Orders {
			if file.Orders[i].ID == encoded.ID {
				file.Orders[i] = encoded
				return
			}
		}
		file.Orders = append(file.Orders, encoded)
	})
}

func (r *CatalogRepository) read(ctx context.Context) (catalogFileSchema, error) {
	if err := ctx.Err(); err != nil {
		return catalogFileSchema{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var file catalogFileSchema
	if err := readTOMLFile(r.path, catalogLabel, &file); err != nil {
		return catalogFileSchema{}, err
	}

	return file, nil
}

func (r *CatalogRepository) update(ctx context.Context, mutate func(*catalogFileSchema)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var file catalogFileSchema
	if err := readTOMLFile(r.path, catalogLabel, &file); err != nil {
		return err
	}

	mutate(&file)

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeTOMLFile(r.path, catalogLabel, &file)
}

func toCoordinatesSchema(coords *domain.Coordinates) *coordinatesSchema {
	if coords == nil {
		return nil
	}

	return &coordinatesSchema{Lat: coords.Lat, Lng: coords.Lng}
}

func fromCoordinatesSchema(coords *coordinatesSchema) *domain.Coordinates {
	if coords == nil {
		return nil
	}

	return &domain.Coordinates{Lat: coords.Lat, Lng: coords.Lng}
}

func toShopSchema(shop domain.Shop) shopSchema {
	return shopSchema{
		ID:       string(shop.ID),
		Name:     shop.Name,
		Location: toCoordinatesSchema(shop.Location),
	}
}

func fromShopSchema(shop shopSchema) domain.Shop {
	return domain.Shop{
		ID:       domain.ShopID(shop.ID),
		Name:     shop.Name,
		Location: fromCoordinatesSchema(shop.Location),
	}
}

func toProductSchema(product domain.Product) productSchema {
	return productSchema{
		ID:                    string(product.ID),
		ShopID:                string(product.ShopID),
		Name:                  product.Name,
		Price:                 product.Price,
		MinPrice:              product.MinPrice,
		MaxDiscountPercentage: product.MaxDiscountPercentage,
		Negotiable:            product.Negotiable,
	}
}

func fromProductSchema(product productSchema) domain.Product {
	return domain.Product{
		ID:                    domain.ProductID(product.ID),
		ShopID:                domain.ShopID(product.ShopID),
		Name:                  product.Name,
		Price:                 product.Price,
		MinPrice:              product.MinPrice,
		MaxDiscountPercentage: product.MaxDiscountPercentage,
		Negotiable:            product.Negotiable,
	}
}

func toOrderSchema(order domain.Order) orderSchema {
	return orderSchema{
		ID:               string(order.ID),
		ShopID:           string(order.ShopID),
		ProductID:        string(order.ProductID),
		Delivery:         toCoordinatesSchema(order.Delivery),
		DeliveryPersonID: order.DeliveryPersonID,
		Status:           string(order.Status),
	}
}

func fromOrderSchema(order orderSchema) domain.Order {
	status := domain.OrderStatus(order.Status)
	if status == "" {
		status = domain.OrderStatusPending
	}

	return domain.Order{
		ID:               domain.OrderID(order.ID),
		ShopID:           domain.ShopID(order.ShopID),
		ProductID:        domain.ProductID(order.ProductID),
		Delivery:         fromCoordinatesSchema(order.Delivery),
		DeliveryPersonID: order.DeliveryPersonID,
		Status:           status,
	}
}
