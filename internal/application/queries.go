package application

import (
	"github.com/bnema/haggle/internal/domain"
	"github.com/bnema/haggle/internal/geo"
)

type DeliveryQuote struct {
	OrderID          domain.OrderID
	HasCoordinates   bool
	DistanceKm       float64
	Distance         string
	TravelMinutes    map[geo.TransportMode]int
	EstimatedMinutes int
	Bounds           domain.Bounds
	OpeningFee       float64
}

type NegotiationSummary struct {
	ID           domain.NegotiationID
	Subject      domain.Subject
	Status       domain.Status
	Round        int
	RoundCap     int
	OpeningPrice float64
	LastOffer    *float64
	LastCounter  *float64
}

func summarize(negotiation domain.Negotiation) NegotiationSummary {
	return NegotiationSummary{
		ID:           negotiation.ID,
		Subject:      negotiation.Subject,
		Status:       negotiation.State.Status,
		Round:        negotiation.State.Round,
		RoundCap:     negotiation.State.Strategy.RoundCap,
		OpeningPrice: negotiation.OpeningPrice,
		LastOffer:    negotiation.State.LastOffer,
		LastCounter:  negotiation.State.LastCounter,
	}
}
