package domain

import "math"

// evaluateOffer expects state to already carry the incremented round and the
// offer as LastOffer.
func evaluateOffer(state State, offer float64) Decision {
	bounds := state.Bounds

	if offer >= bounds.Max {
		return reject(RejectFullPrice, rejectMessage(state.Kind, RejectFullPrice, bounds, offer))
	}
	if offer < bounds.Min {
		return reject(RejectBelowMinimum, rejectMessage(state.Kind, RejectBelowMinimum, bounds, offer))
	}
	if bounds.Discount(offer) > bounds.MaxDiscount {
		return reject(RejectExceedsMaxDiscount, rejectMessage(state.Kind, RejectExceedsMaxDiscount, bounds, offer))
	}

	if acceptanceScore(state, offer) > state.Strategy.AcceptThreshold {
		return accept(acceptMessage(state.Kind))
	}

	counter := CounterOffer(bounds, state.Strategy, state.LastOffer)
	return Decision{
		Outcome: OutcomeCounter,
		Price:   counter,
		Message: counterMessage(state.Kind, bounds, counter, state.Round),
	}
}

// acceptanceScore averages how far the negotiation has run, how close the
// offer is to Max and the strategy's eagerness. Only reached with Min < Max.
func acceptanceScore(state State, offer float64) float64 {
	roundFactor := math.Min(float64(state.Round)/float64(state.Strategy.RoundCap), 1)
	priceFactor := (offer - state.Bounds.Min) / (state.Bounds.Max - state.Bounds.Min)

	return (roundFactor + priceFactor + state.Strategy.Eagerness) / 3
}
