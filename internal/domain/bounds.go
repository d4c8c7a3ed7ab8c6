package domain

import (
	"fmt"
	"math"
)

const (
	DeliveryDefaultMinFee  = 3.00
	DeliveryDefaultMaxFee  = 5.00
	DeliveryMaxDiscount    = 0.40
	deliveryMinFeeBase     = 2.00
	deliveryMinFeePerKm    = 0.50
	deliveryMaxFeeBase     = 3.00
	deliveryMaxFeePerKm    = 0.75
	percentToFractionRatio = 100
)

// DistanceFunc returns the distance in kilometres between two points.
type DistanceFunc func(lat1, lon1, lat2, lon2 float64) float64

type Bounds struct {
	Min         float64
	Max         float64
	MaxDiscount float64
}

func (b Bounds) Validate() error {
	if !isFinite(b.Min) || !isFinite(b.Max) || !isFinite(b.MaxDiscount) {
		return fmt.Errorf("%w: values must be finite", ErrInvalidBounds)
	}
	if b.Min <= 0 {
		return fmt.Errorf("%w: min %.2f must be positive", ErrInvalidBounds, b.Min)
	}
	if b.Min > b.Max {
		return fmt.Errorf("%w: min %.2f exceeds max %.2f", ErrInvalidBounds, b.Min, b.Max)
	}
	if b.MaxDiscount < 0 || b.MaxDiscount > 1 {
		return fmt.Errorf("%w: max discount %.2f outside [0,1]", ErrInvalidBounds, b.MaxDiscount)
	}

	return nil
}

// Discount is the fraction of Max given up by settling at price.
func (b Bounds) Discount(price float64) float64 {
	return (b.Max - price) / b.Max
}

func (b Bounds) Clamp(price float64) float64 {
	return math.Max(math.Min(price, b.Max), b.Min)
}

func ProductBounds(product Product) (Bounds, error) {
	if !product.IsNegotiable() {
		return Bounds{}, fmt.Errorf("product %s: %w", product.ID, ErrNotNegotiable)
	}

	bounds := Bounds{
		Min:         product.MinPrice,
		Max:         product.Price,
		MaxDiscount: product.MaxDiscountPercentage / percentToFractionRatio,
	}
	if err := bounds.Validate(); err != nil {
		return Bounds{}, fmt.Errorf("product %s: %w", product.ID, err)
	}

	return bounds, nil
}

// DeliveryBounds derives fee bounds from the shop-to-customer distance. The
// defaults apply when either end has no coordinates or distance is nil.
func DeliveryBounds(shop, delivery *Coordinates, distance DistanceFunc) Bounds {
	bounds := Bounds{
		Min:         DeliveryDefaultMinFee,
		Max:         DeliveryDefaultMaxFee,
		MaxDiscount: DeliveryMaxDiscount,
	}
	if shop == nil || delivery == nil || distance == nil {
		return bounds
	}

	km := distance(shop.Lat, shop.Lng, delivery.Lat, delivery.Lng)
	bounds.Min = math.Max(DeliveryDefaultMinFee, deliveryMinFeeBase+deliveryMinFeePerKm*km)
	bounds.Max = math.Max(DeliveryDefaultMaxFee, deliveryMaxFeeBase+deliveryMaxFeePerKm*km)

	return bounds
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
