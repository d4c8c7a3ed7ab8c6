package domain

import "fmt"

// Evaluate runs one negotiation round. It never mutates the given state and
// returns the next one alongside the decision.
func Evaluate(state State, offer float64) (State, Decision, error) {
	if state.Status == "" {
		state.Status = StatusOpen
	}
	if state.Status.Terminal() {
		return state, Decision{}, fmt.Errorf("%w: status %s", ErrNegotiationClosed, state.Status)
	}
	if err := state.Validate(); err != nil {
		return state, Decision{}, err
	}
	if !isFinite(offer) || offer < 0 {
		return state, Decision{}, fmt.Errorf("%w: %v", ErrInvalidOffer, offer)
	}

	next := state.clone()
	next.LastOffer = floatPtr(offer)
	next.Round++

	decision := evaluateOffer(next, offer)
	switch decision.Outcome {
	case OutcomeAccept:
		next.Status = StatusAccepted
	case OutcomeReject:
		next.Status = StatusRejected
	case OutcomeCounter:
		next.LastCounter = floatPtr(decision.Price)
		decision.Continue = CanContinue(next)
		if !decision.Continue {
			next.Status = StatusExpired
		}
	}

	return next, decision, nil
}

// Open returns the counterparty's opening price for a fresh state.
func Open(state State) float64 {
	return CounterOffer(state.Bounds, state.Strategy, nil)
}

func (s State) clone() State {
	out := s
	if s.LastOffer != nil {
		out.LastOffer = floatPtr(*s.LastOffer)
	}
	if s.LastCounter != nil {
		out.LastCounter = floatPtr(*s.LastCounter)
	}

	return out
}

func floatPtr(v float64) *float64 {
	return &v
}
