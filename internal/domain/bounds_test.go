package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductBounds(t *testing.T) {
	t.Parallel()

	bounds, err := ProductBounds(sampleProduct())
	require.NoError(t, err)
	assert.Equal(t, Bounds{Min: 70, Max: 100, MaxDiscount: 0.3}, bounds)
}

func TestProductBoundsRejectsIneligibleProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Product)
		wantErr error
	}{
		{name: "non negotiable", mutate: func(p *Product) { p.Negotiable = false }, wantErr: ErrNotNegotiable},
		{name: "zero min price", mutate: func(p *Product) { p.MinPrice = 0 }, wantErr: ErrInvalidBounds},
		{name: "min above price", mutate: func(p *Product) { p.MinPrice = 120 }, wantErr: ErrInvalidBounds},
		{name: "discount above 100", mutate: func(p *Product) { p.MaxDiscountPercentage = 140 }, wantErr: ErrInvalidBounds},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			product := sampleProduct()
			tc.mutate(&product)

			_, err := ProductBounds(product)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDeliveryBounds(t *testing.T) {
	t.Parallel()

	shop := &Coordinates{Lat: 48.85, Lng: 2.35}
	home := &Coordinates{Lat: 48.86, Lng: 2.36}
	fixed := func(km float64) DistanceFunc {
		return func(_, _, _, _ float64) float64 { return km }
	}

	tests := []struct {
		name     string
		shop     *Coordinates
		delivery *Coordinates
		distance DistanceFunc
		want     Bounds
	}{
		{name: "missing shop coordinates", delivery: home, distance: fixed(10), want: Bounds{Min: 3, Max: 5, MaxDiscount: 0.4}},
		{name: "missing delivery coordinates", shop: shop, distance: fixed(10), want: Bounds{Min: 3, Max: 5, MaxDiscount: 0.4}},
		{name: "short distance keeps floors", shop: shop, delivery: home, distance: fixed(1), want: Bounds{Min: 3, Max: 5, MaxDiscount: 0.4}},
		{name: "long distance scales", shop: shop, delivery: home, distance: fixed(10), want: Bounds{Min: 7, Max: 10.5, MaxDiscount: 0.4}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := DeliveryBounds(tc.shop, tc.delivery, tc.distance)
			assert.InDelta(t, tc.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tc.want.Max, got.Max, 1e-9)
			assert.InDelta(t, tc.want.MaxDiscount, got.MaxDiscount, 1e-9)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestDeliveryBoundsPassesShopFirst(t *testing.T) {
	t.Parallel()

	var got [4]float64
	DeliveryBounds(&Coordinates{Lat: 1, Lng: 2}, &Coordinates{Lat: 3, Lng: 4}, func(lat1, lon1, lat2, lon2 float64) float64 {
		got = [4]float64{lat1, lon1, lat2, lon2}
		return 0
	})

	assert.Equal(t, [4]float64{1, 2, 3, 4}, got)
}

func TestStrategyValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultProductStrategy().Validate())
	assert.NoError(t, DefaultDeliveryStrategy().Validate())

	bad := DefaultProductStrategy()
	bad.RoundCap = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidStrategy)

	bad = DefaultProductStrategy()
	bad.Eagerness = 1.2
	assert.ErrorContains(t, bad.Validate(), "eagerness")

	bad = DefaultDeliveryStrategy()
	bad.Flexibility = -0.1
	assert.ErrorContains(t, bad.Validate(), "flexibility")
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	kind, err := ParseKind(" Delivery ")
	require.NoError(t, err)
	assert.Equal(t, KindDelivery, kind)

	_, err = ParseKind("auction")
	assert.ErrorContains(t, err, "unsupported negotiation kind")
}
