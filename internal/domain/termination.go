package domain

import "math"

// CanContinue reports whether the negotiation may take another offer.
func CanContinue(state State) bool {
	if state.Round >= state.Strategy.RoundCap {
		return false
	}

	if state.LastOffer != nil && state.LastCounter != nil {
		if math.Abs(*state.LastCounter-*state.LastOffer) < state.Strategy.ConvergenceDelta {
			return false
		}
	}

	if state.LastOffer != nil && state.Bounds.Discount(*state.LastOffer) > state.Bounds.MaxDiscount {
		return false
	}

	return true
}
