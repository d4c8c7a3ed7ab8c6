// Package geo holds the great-circle helpers used to price deliveries.
package geo

import (
	"fmt"
	"math"
	"strings"
)

const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometres between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%.0fm", km*1000)
	}

	return fmt.Sprintf("%.1fkm", km)
}

type TransportMode string

const (
	TransportWalk TransportMode = "walk"
	TransportBike TransportMode = "bike"
	TransportCar  TransportMode = "car"
)

var speedsKmh = map[TransportMode]float64{
	TransportWalk: 5,
	TransportBike: 15,
	TransportCar:  30,
}

// TravelMinutes estimates travel time, falling back to car speed for
// unknown modes.
func TravelMinutes(km float64, mode TransportMode) int {
	speed, ok := speedsKmh[TransportMode(strings.ToLower(string(mode)))]
	if !ok {
		speed = speedsKmh[TransportCar]
	}

	return int(math.Round(km / speed * 60))
}

const (
	deliveryBaseMinutes      = 15
	deliveryMinutesPerKm     = 3
	deliveryBufferFactor     = 1.2
	deliveryMinutesPerActive = 10
	DefaultDeliveryMinutes   = 60
)

// DeliveryMinutes estimates door-to-door delivery time for a courier that
// already carries activeDeliveries other orders.
func DeliveryMinutes(km float64, activeDeliveries int) int {
	minutes := (deliveryBaseMinutes + km*deliveryMinutesPerKm) * deliveryBufferFactor
	if activeDeliveries > 0 {
		minutes += float64(activeDeliveries * deliveryMinutesPerActive)
	}

	return int(math.Round(minutes))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
