package domain

import (
	"fmt"
	"strings"
)

type ProductID string
type ShopID string
type OrderID string

type Coordinates struct {
	Lat float64
	Lng float64
}

type Shop struct {
	ID       ShopID
	Name     string
	Location *Coordinates
}

type Product struct {
	ID                    ProductID
	ShopID                ShopID
	Name                  string
	Price                 float64
	MinPrice              float64
	MaxDiscountPercentage float64
	Negotiable            bool
}

func (p Product) IsNegotiable() bool {
	return p.Negotiable
}

func (p Product) Validate() error {
	if strings.TrimSpace(string(p.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if p.MinPrice < 0 || p.MinPrice > p.Price {
		return fmt.Errorf("min price must be between 0 and price")
	}
	if p.MaxDiscountPercentage < 0 || p.MaxDiscountPercentage > 100 {
		return fmt.Errorf("max discount percentage must be between 0 and 100")
	}

	return nil
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
)

type Order struct {
	ID               OrderID
	ShopID           ShopID
	ProductID        ProductID
	Delivery         *Coordinates
	DeliveryPersonID string
	Status           OrderStatus
}

func (o Order) Validate() error {
	if strings.TrimSpace(string(o.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(string(o.ShopID)) == "" {
		return fmt.Errorf("shop is required")
	}

	return nil
}
