package toml

import "fmt"

const currentCatalogSchemaVersion = 1

type catalogFileSchema struct {
	Version  int             `toml:"version"`
	Shops    []shopSchema    `toml:"shops"`
	Products []productSchema `toml:"products"`
	Orders   []orderSchema   `toml:"orders"`
}

func (s *catalogFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentCatalogSchemaVersion
	}
}

func (s *catalogFileSchema) validateVersion() error {
	if s.Version > currentCatalogSchemaVersion {
		return fmt.Errorf("unsupported catalog schema version %d (current %d)", s.Version, currentCatalogSchemaVersion)
	}

	return nil
}

type coordinatesSchema struct {
	Lat float64 `toml:"lat"`
	Lng float64 `toml:"lng"`
}

type shopSchema struct {
	ID       string             `toml:"id"`
	Name     string             `toml:"name"`
	Location *coordinatesSchema `toml:"location,omitempty"`
}

type productSchema struct {
	ID                    string  `toml:"id"`
	ShopID                string  `toml:"shop_id,omitempty"`
	Name                  string  `toml:"name"`
	Price                 float64 `toml:"price"`
	MinPrice              float64 `toml:"min_price"`
	MaxDiscountPercentage float64 `toml:"max_discount_percentage"`
	Negotiable            bool    `toml:"negotiable"`
}

type orderSchema struct {
	ID               string             `toml:"id"`
	ShopID           string             `toml:"shop_id"`
	ProductID        string             `toml:"product_id,omitempty"`
	Delivery         *coordinatesSchema `toml:"delivery,omitempty"`
	DeliveryPersonID string             `toml:"delivery_person_id,omitempty"`
	Status           string             `toml:"status"`
}
