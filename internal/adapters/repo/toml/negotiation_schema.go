package toml

import "fmt"

const currentNegotiationsSchemaVersion = 1

type negotiationsFileSchema struct {
	Version      int                 `toml:"version"`
	Negotiations []negotiationSchema `toml:"negotiations"`
}

func (s *negotiationsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentNegotiationsSchemaVersion
	}
}

func (s *negotiationsFileSchema) validateVersion() error {
	if s.Version > currentNegotiationsSchemaVersion {
		return fmt.Errorf("unsupported negotiations schema version %d (current %d)", s.Version, currentNegotiationsSchemaVersion)
	}

	return nil
}

type negotiationSchema struct {
	ID           string        `toml:"id"`
	Kind         string        `toml:"kind"`
	RefID        string        `toml:"ref_id"`
	OpeningPrice float64       `toml:"opening_price"`
	CreatedAt    string        `toml:"created_at"`
	UpdatedAt    string        `toml:"updated_at"`
	State        stateSchema   `toml:"state"`
	Rounds       []roundSchema `toml:"rounds,omitempty"`
}

type stateSchema struct {
	Round       int            `toml:"round"`
	Status      string         `toml:"status"`
	LastOffer   *float64       `toml:"last_offer,omitempty"`
	LastCounter *float64       `toml:"last_counter,omitempty"`
	Bounds      boundsSchema   `toml:"bounds"`
	Strategy    strategySchema `toml:"strategy"`
}

type boundsSchema struct {
	Min         float64 `toml:"min"`
	Max         float64 `toml:"max"`
	MaxDiscount float64 `toml:"max_discount"`
}

type strategySchema struct {
	RoundCap         int     `toml:"round_cap"`
	AcceptThreshold  float64 `toml:"accept_threshold"`
	Eagerness        float64 `toml:"eagerness"`
	Flexibility      float64 `toml:"flexibility"`
	ConvergenceDelta float64 `toml:"convergence_delta"`
}

type roundSchema struct {
	Number   int            `toml:"number"`
	Offer    float64        `toml:"offer"`
	At       string         `toml:"at"`
	Decision decisionSchema `toml:"decision"`
}

type decisionSchema struct {
	Outcome  string  `toml:"outcome"`
	Reason   string  `toml:"reason,omitempty"`
	Price    float64 `toml:"price,omitempty"`
	Message  string  `toml:"message"`
	Continue bool    `toml:"continue"`
}
