package application

import "github.com/bnema/haggle/internal/domain"

type AddShopCommand struct {
	ID       domain.ShopID
	Name     string
	Location *domain.Coordinates
}

type AddProductCommand struct {
	ID                    domain.ProductID
	ShopID                domain.ShopID
	Name                  string
	Price                 float64
	MinPrice              float64
	MaxDiscountPercentage float64
	Negotiable            bool
}

type AddOrderCommand struct {
	ID               domain.OrderID
	ShopID           domain.ShopID
	ProductID        domain.ProductID
	Delivery         *domain.Coordinates
	DeliveryPersonID string
	Status           domain.OrderStatus
}

type SubmitOfferCommand struct {
	NegotiationID domain.NegotiationID
	Offer         float64
}
