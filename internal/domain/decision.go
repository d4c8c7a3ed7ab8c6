package domain

type Outcome string

const (
	OutcomeAccept  Outcome = "accept"
	OutcomeReject  Outcome = "reject"
	OutcomeCounter Outcome = "counter"
)

type RejectReason string

const (
	RejectFullPrice          RejectReason = "full_price"
	RejectBelowMinimum       RejectReason = "below_minimum"
	RejectExceedsMaxDiscount RejectReason = "exceeds_max_discount"
)

type Decision struct {
	Outcome Outcome
	Reason  RejectReason
	Price   float64
	Message string
	// Continue reports whether a further offer is allowed after a counter.
	Continue bool
}

func (d Decision) Terminal() bool {
	return d.Outcome != OutcomeCounter || !d.Continue
}

func accept(message string) Decision {
	return Decision{Outcome: OutcomeAccept, Message: message}
}

func reject(reason RejectReason, message string) Decision {
	return Decision{Outcome: OutcomeReject, Reason: reason, Message: message}
}
