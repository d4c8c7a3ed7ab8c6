package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		delta                  float64
	}{
		{name: "same point", lat1: 48.8566, lon1: 2.3522, lat2: 48.8566, lon2: 2.3522, want: 0, delta: 1e-9},
		{name: "paris to london", lat1: 48.8566, lon1: 2.3522, lat2: 51.5074, lon2: -0.1278, want: 343.5, delta: 1},
		{name: "one degree of latitude", lat1: 0, lon1: 0, lat2: 1, lon2: 0, want: 111.195, delta: 0.01},
		{name: "antipodes", lat1: 0, lon1: 0, lat2: 0, lon2: 180, want: 20015.09, delta: 0.1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Haversine(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			assert.InDelta(t, tc.want, got, tc.delta)
			assert.InDelta(t, got, Haversine(tc.lat2, tc.lon2, tc.lat1, tc.lon1), 1e-9)
		})
	}
}

func TestFormatDistance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "850m", FormatDistance(0.85))
	assert.Equal(t, "1.0km", FormatDistance(1))
	assert.Equal(t, "12.3km", FormatDistance(12.34))
}

func TestTravelMinutes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 24, TravelMinutes(2, TransportWalk))
	assert.Equal(t, 8, TravelMinutes(2, TransportBike))
	assert.Equal(t, 4, TravelMinutes(2, TransportCar))
	assert.Equal(t, 4, TravelMinutes(2, TransportMode("teleport")))
}

func TestDeliveryMinutes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 18, DeliveryMinutes(0, 0))
	assert.Equal(t, 36, DeliveryMinutes(5, 0))
	assert.Equal(t, 56, DeliveryMinutes(5, 2))
}
