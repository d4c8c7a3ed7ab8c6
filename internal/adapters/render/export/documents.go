package export

import (
	"time"

	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/domain"
)

type Bounds struct {
	Min         float64 `json:"min" yaml:"min" toml:"min"`
	Max         float64 `json:"max" yaml:"max" toml:"max"`
	MaxDiscount float64 `json:"max_discount" yaml:"max_discount" toml:"max_discount"`
}

type Strategy struct {
	RoundCap         int     `json:"round_cap" yaml:"round_cap" toml:"round_cap"`
	AcceptThreshold  float64 `json:"accept_threshold" yaml:"accept_threshold" toml:"accept_threshold"`
	Eagerness        float64 `json:"eagerness" yaml:"eagerness" toml:"eagerness"`
	Flexibility      float64 `json:"flexibility" yaml:"flexibility" toml:"flexibility"`
	ConvergenceDelta float64 `json:"convergence_delta" yaml:"convergence_delta" toml:"convergence_delta"`
}

// State is the portable form of a negotiation state, as written to and read
// from state files by stateless callers.
type State struct {
	Kind        string    `json:"kind" yaml:"kind" toml:"kind"`
	Bounds      Bounds    `json:"bounds" yaml:"bounds" toml:"bounds"`
	Strategy    *Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty" toml:"strategy,omitempty"`
	Round       int       `json:"round" yaml:"round" toml:"round"`
	LastOffer   *float64  `json:"last_offer,omitempty" yaml:"last_offer,omitempty" toml:"last_offer,omitempty"`
	LastCounter *float64  `json:"last_counter,omitempty" yaml:"last_counter,omitempty" toml:"last_counter,omitempty"`
	Status      string    `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
}

type Decision struct {
	Outcome  string   `json:"outcome" yaml:"outcome" toml:"outcome"`
	Reason   string   `json:"reason,omitempty" yaml:"reason,omitempty" toml:"reason,omitempty"`
	Price    *float64 `json:"price,omitempty" yaml:"price,omitempty" toml:"price,omitempty"`
	Message  string   `json:"message" yaml:"message" toml:"message"`
	Continue bool     `json:"continue" yaml:"continue" toml:"continue"`
}

type Round struct {
	Number   int       `json:"number" yaml:"number" toml:"number"`
	Offer    float64   `json:"offer" yaml:"offer" toml:"offer"`
	Decision Decision  `json:"decision" yaml:"decision" toml:"decision"`
	At       time.Time `json:"at" yaml:"at" toml:"at"`
}

type Negotiation struct {
	ID           string    `json:"id" yaml:"id" toml:"id"`
	Kind         string    `json:"kind" yaml:"kind" toml:"kind"`
	RefID        string    `json:"ref_id" yaml:"ref_id" toml:"ref_id"`
	OpeningPrice float64   `json:"opening_price" yaml:"opening_price" toml:"opening_price"`
	State        State     `json:"state" yaml:"state" toml:"state"`
	Rounds       []Round   `json:"rounds" yaml:"rounds" toml:"rounds"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at" toml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
}

type Summary struct {
	ID           string   `json:"id" yaml:"id" toml:"id"`
	Kind         string   `json:"kind" yaml:"kind" toml:"kind"`
	RefID        string   `json:"ref_id" yaml:"ref_id" toml:"ref_id"`
	Status       string   `json:"status" yaml:"status" toml:"status"`
	Round        int      `json:"round" yaml:"round" toml:"round"`
	RoundCap     int      `json:"round_cap" yaml:"round_cap" toml:"round_cap"`
	OpeningPrice float64  `json:"opening_price" yaml:"opening_price" toml:"opening_price"`
	LastOffer    *float64 `json:"last_offer,omitempty" yaml:"last_offer,omitempty" toml:"last_offer,omitempty"`
	LastCounter  *float64 `json:"last_counter,omitempty" yaml:"last_counter,omitempty" toml:"last_counter,omitempty"`
}

// SummaryList wraps summaries so TOML has a top-level table to write into.
type SummaryList struct {
	Negotiations []Summary `json:"negotiations" yaml:"negotiations" toml:"negotiations"`
}

// Evaluation is what a stateless evaluate call emits.
type Evaluation struct {
	Decision Decision `json:"decision" yaml:"decision" toml:"decision"`
	State    State    `json:"state" yaml:"state" toml:"state"`
}

func FromState(s domain.State) State {
	strategy := FromStrategy(s.Strategy)
	return State{
		Kind:        string(s.Kind),
		Bounds:      Bounds{Min: s.Bounds.Min, Max: s.Bounds.Max, MaxDiscount: s.Bounds.MaxDiscount},
		Strategy:    &strategy,
		Round:       s.Round,
		LastOffer:   s.LastOffer,
		LastCounter: s.LastCounter,
		Status:      string(s.Status),
	}
}

func FromStrategy(s domain.Strategy) Strategy {
	return Strategy{
		RoundCap:         s.RoundCap,
		AcceptThreshold:  s.AcceptThreshold,
		Eagerness:        s.Eagerness,
		Flexibility:      s.Flexibility,
		ConvergenceDelta: s.ConvergenceDelta,
	}
}

// ToDomain converts a portable state back. A missing strategy falls back to
// fallback, usually the configured strategy for the kind.
func (s State) ToDomain(fallback func(domain.Kind) domain.Strategy) (domain.State, error) {
	kind, err := domain.ParseKind(s.Kind)
	if err != nil {
		return domain.State{}, err
	}

	strategy := fallback(kind)
	if s.Strategy != nil {
		strategy = domain.Strategy{
			RoundCap:         s.Strategy.RoundCap,
			AcceptThreshold:  s.Strategy.AcceptThreshold,
			Eagerness:        s.Strategy.Eagerness,
			Flexibility:      s.Strategy.Flexibility,
			ConvergenceDelta: s.Strategy.ConvergenceDelta,
		}
	}

	state := domain.State{
		Kind:        kind,
		Bounds:      domain.Bounds{Min: s.Bounds.Min, Max: s.Bounds.Max, MaxDiscount: s.Bounds.MaxDiscount},
		Strategy:    strategy,
		Round:       s.Round,
		LastOffer:   s.LastOffer,
		LastCounter: s.LastCounter,
		Status:      domain.Status(s.Status),
	}
	if state.Status == "" {
		state.Status = domain.StatusOpen
	}
	if err := state.Validate(); err != nil {
		return domain.State{}, err
	}

	return state, nil
}

func FromDecision(d domain.Decision) Decision {
	out := Decision{
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

func FromNegotiation(n domain.Negotiation) Negotiation {
	rounds := make([]Round, 0, len(n.Rounds))
	for _, round := range n.Rounds {
		rounds = append(rounds, Round{
			Number:   round.Number,
			Offer:    round.Offer,
			Decision: FromDecision(round.Decision),
			At:       round.At,
		})
	}

	return Negotiation{
		ID:           string(n.ID),
		Kind:         string(n.Subject.Kind),
		RefID:        n.Subject.RefID,
		OpeningPrice: n.OpeningPrice,
		State:        FromState(n.State),
		Rounds:       rounds,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func FromSummaries(summaries []application.NegotiationSummary) SummaryList {
	out := SummaryList{Negotiations: make([]Summary, 0, len(summaries))}
	for _, s := range summaries {
		out.Negotiations = append(out.Negotiations, Summary{
			ID:           string(s.ID),
			Kind:         string(s.Subject.Kind),
			RefID:        s.Subject.RefID,
			Status:       string(s.Status),
			Round:        s.Round,
			RoundCap:     s.RoundCap,
			OpeningPrice: s.OpeningPrice,
			LastOffer:    s.LastOffer,
			LastCounter:  s.LastCounter,
		})
	}
	return out
}
