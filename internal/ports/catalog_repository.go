package ports

import (
	"context"

	"github.com/bnema/haggle/internal/domain"
)

type CatalogRepository interface {
	GetShop(ctx context.Context, id domain.ShopID) (domain.Shop, error)
	SaveShop(ctx context.Context, shop domain.Shop) error
	GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SaveProduct(ctx context.Context, product domain.Product) error
	GetOrder(ctx context.Context, id domain.OrderID) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	SaveOrder(ctx context.Context, order domain.Order) error
}
