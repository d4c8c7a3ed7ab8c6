package httpapi

import (
	"time"

	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/domain"
)

type boundsDTO struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	MaxDiscount float64 `json:"max_discount"`
}

type strategyDTO struct {
	RoundCap         int     `json:"round_cap"`
	AcceptThreshold  float64 `json:"accept_threshold"`
	Eagerness        float64 `json:"eagerness"`
	Flexibility      float64 `json:"flexibility"`
	ConvergenceDelta float64 `json:"convergence_delta"`
}

type stateDTO struct {
	Kind        string       `json:"kind"`
	Bounds      boundsDTO    `json:"bounds"`
	Strategy    *strategyDTO `json:"strategy,omitempty"`
	Round       int          `json:"round"`
	LastOffer   *float64     `json:"last_offer,omitempty"`
	LastCounter *float64     `json:"last_counter,omitempty"`
	Status      string       `json:"status,omitempty"`
}

// fresh reports whether the state carries nothing beyond kind and bounds.
func (s stateDTO) fresh() bool {
	return s.Strategy == nil &&
		s.Round == 0 &&
		s.LastOffer == nil &&
		s.LastCounter == nil &&
		(s.Status == "" || s.Status == string(domain.StatusOpen))
}

type decisionDTO struct {
	Outcome  string   `json:"outcome"`
	Reason   string   `json:"reason,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Message  string   `json:"message"`
	Continue bool     `json:"continue"`
}

type roundDTO struct {
	Number   int         `json:"number"`
	Offer    float64     `json:"offer"`
	Decision decisionDTO `json:"decision"`
	At       time.Time   `json:"at"`
}

type negotiationDTO struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	RefID        string     `json:"ref_id"`
	Status       string     `json:"status"`
	Round        int        `json:"round"`
	RoundCap     int        `json:"round_cap"`
	OpeningPrice float64    `json:"opening_price"`
	Bounds       boundsDTO  `json:"bounds"`
	LastOffer    *float64   `json:"last_offer,omitempty"`
	LastCounter  *float64   `json:"last_counter,omitempty"`
	Rounds       []roundDTO `json:"rounds"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type summaryDTO struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	RefID        string   `json:"ref_id"`
	Status       string   `json:"status"`
	Round        int      `json:"round"`
	RoundCap     int      `json:"round_cap"`
	OpeningPrice float64  `json:"opening_price"`
	LastOffer    *float64 `json:"last_offer,omitempty"`
	LastCounter  *float64 `json:"last_counter,omitempty"`
}

type quoteDTO struct {
	OrderID          string         `json:"order_id"`
	HasCoordinates   bool           `json:"has_coordinates"`
	DistanceKm       float64        `json:"distance_km"`
	Distance         string         `json:"distance,omitempty"`
	TravelMinutes    map[string]int `json:"travel_minutes,omitempty"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	Bounds           boundsDTO      `json:"bounds"`
	OpeningFee       float64        `json:"opening_fee"`
}

type offerRequest struct {
	Offer *float64 `json:"offer"`
}

type evaluateRequest struct {
	State *stateDTO `json:"state,omitempty"`
	Token string    `json:"token,omitempty"`
	Offer *float64  `json:"offer"`
}

type evaluateResponse struct {
	Decision decisionDTO `json:"decision"`
	State    stateDTO    `json:"state"`
	Token    string      `json:"token,omitempty"`
}

type offerResponse struct {
	Decision    decisionDTO    `json:"decision"`
	Negotiation negotiationDTO `json:"negotiation"`
}

func toBoundsDTO(b domain.Bounds) boundsDTO {
	return boundsDTO{Min: b.Min, Max: b.Max, MaxDiscount: b.MaxDiscount}
}

func (b boundsDTO) toDomain() domain.Bounds {
	return domain.Bounds{Min: b.Min, Max: b.Max, MaxDiscount: b.MaxDiscount}
}

func toStateDTO(s domain.State) stateDTO {
	return stateDTO{
		Kind:   string(s.Kind),
		Bounds: toBoundsDTO(s.Bounds),
		Strategy: &strategyDTO{
			RoundCap:         s.Strategy.RoundCap,
			AcceptThreshold:  s.Strategy.AcceptThreshold,
			Eagerness:        s.Strategy.Eagerness,
			Flexibility:      s.Strategy.Flexibility,
			ConvergenceDelta: s.Strategy.ConvergenceDelta,
		},
		Round:       s.Round,
		LastOffer:   s.LastOffer,
		LastCounter: s.LastCounter,
		Status:      string(s.Status),
	}
}

func toDecisionDTO(d domain.Decision) decisionDTO {
	out := decisionDTO{
		Outcome:  string(d.Outcome),
		Reason:   string(d.Reason),
		Message:  d.Message,
		Continue: d.Continue,
	}
	if d.Outcome == domain.OutcomeCounter {
		price := d.Price
		out.Price = &price
	}

	return out
}

func toNegotiationDTO(n domain.Negotiation) negotiationDTO {
	rounds := make([]roundDTO, 0, len(n.Rounds))
	for _, round := range n.Rounds {
		rounds = append(rounds, roundDTO{
			Number:   round.Number,
			Offer:    round.Offer,
			Decision: toDecisionDTO(round.Decision),
			At:       round.At,
		})
	}

	return negotiationDTO{
		ID:           string(n.ID),
		Kind:         string(n.Subject.Kind),
		RefID:        n.Subject.RefID,
		Status:       string(n.State.Status),
		Round:        n.State.Round,
		RoundCap:     n.State.Strategy.RoundCap,
		OpeningPrice: n.OpeningPrice,
		Bounds:       toBoundsDTO(n.State.Bounds),
		LastOffer:    n.State.LastOffer,
		LastCounter:  n.State.LastCounter,
		Rounds:       rounds,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func toSummaryDTO(s application.NegotiationSummary) summaryDTO {
	return summaryDTO{
		ID:           string(s.ID),
		Kind:         string(s.Subject.Kind),
		RefID:        s.Subject.RefID,
		Status:       string(s.Status),
		Round:        s.Round,
		RoundCap:     s.RoundCap,
		OpeningPrice: s.OpeningPrice,
		LastOffer:    s.LastOffer,
		LastCounter:  s.LastCounter,
	}
}

func toQuoteDTO(q application.DeliveryQuote) quoteDTO {
	out := quoteDTO{
		OrderID:          string(q.OrderID),
		HasCoordinates:   q.HasCoordinates,
		DistanceKm:       q.DistanceKm,
		Distance:         q.Distance,
		EstimatedMinutes: q.EstimatedMinutes,
		Bounds:           toBoundsDTO(q.Bounds),
		OpeningFee:       q.OpeningFee,
	}
	if len(q.TravelMinutes) > 0 {
		out.TravelMinutes = make(map[string]int, len(q.TravelMinutes))
		for mode, minutes := range q.TravelMinutes {
			out.TravelMinutes[string(mode)] = minutes
		}
	}

	return out
}
