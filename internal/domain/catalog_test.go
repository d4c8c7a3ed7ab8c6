package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Product)
		wantErr string
	}{
		{name: "valid", mutate: func(*Product) {}},
		{name: "missing id", mutate: func(p *Product) { p.ID = " " }, wantErr: "id is required"},
		{name: "missing name", mutate: func(p *Product) { p.Name = "" }, wantErr: "name is required"},
		{name: "free", mutate: func(p *Product) { p.Price = 0 }, wantErr: "price must be positive"},
		{name: "min above price", mutate: func(p *Product) { p.MinPrice = 101 }, wantErr: "min price"},
		{name: "discount out of range", mutate: func(p *Product) { p.MaxDiscountPercentage = 101 }, wantErr: "max discount"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := sampleProduct()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestOrderValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Order{ID: "ord-1", ShopID: "shop-1"}.Validate())
	assert.ErrorContains(t, Order{ShopID: "shop-1"}.Validate(), "id is required")
	assert.ErrorContains(t, Order{ID: "ord-1"}.Validate(), "shop is required")
}
