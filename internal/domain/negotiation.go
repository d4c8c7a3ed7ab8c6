package domain

import (
	"fmt"
	"time"
)

type NegotiationID string

type Status string

const (
	StatusOpen     Status = "open"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s.Terminal()
}

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusExpired
}

// State is everything the engine needs to evaluate the next offer. It is a
// plain value: callers persist it between rounds and hand it back.
type State struct {
	Kind        Kind
	Bounds      Bounds
	Strategy    Strategy
	Round       int
	LastOffer   *float64
	LastCounter *float64
	Status      Status
}

func NewState(kind Kind, bounds Bounds, strategy Strategy) (State, error) {
	if !kind.Valid() {
		return State{}, fmt.Errorf("unsupported negotiation kind %q", kind)
	}
	if err := bounds.Validate(); err != nil {
		return State{}, err
	}
	if err := strategy.Validate(); err != nil {
		return State{}, err
	}

	return State{
		Kind:     kind,
		Bounds:   bounds,
		Strategy: strategy,
		Status:   StatusOpen,
	}, nil
}

func (s State) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("unsupported negotiation kind %q", s.Kind)
	}
	if err := s.Bounds.Validate(); err != nil {
		return err
	}
	if err := s.Strategy.Validate(); err != nil {
		return err
	}
	if s.Round < 0 {
		return fmt.Errorf("%w: round must not be negative", ErrInvalidState)
	}
	if !s.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidState, s.Status)
	}

	return nil
}

type Subject struct {
	Kind  Kind
	RefID string
}

type Round struct {
	Number   int
	Offer    float64
	Decision Decision
	At       time.Time
}

type Negotiation struct {
	ID           NegotiationID
	Subject      Subject
	State        State
	OpeningPrice float64
	Rounds       []Round
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (n Negotiation) LastDecision() (Decision, bool) {
	if len(n.Rounds) == 0 {
		return Decision{}, false
	}

	return n.Rounds[len(n.Rounds)-1].Decision, true
}
