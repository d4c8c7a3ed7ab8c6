package domain

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindProduct  Kind = "product"
	KindDelivery Kind = "delivery"
)

func (k Kind) Valid() bool {
	switch k {
	case KindProduct, KindDelivery:
		return true
	default:
		return false
	}
}

func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("unsupported negotiation kind %q", raw)
	}

	return kind, nil
}

// Strategy holds the counterparty's fixed parameters for one negotiation.
type Strategy struct {
	RoundCap         int
	AcceptThreshold  float64
	Eagerness        float64
	Flexibility      float64
	ConvergenceDelta float64
}

func DefaultProductStrategy() Strategy {
	return Strategy{
		RoundCap:         5,
		AcceptThreshold:  0.8,
		Eagerness:        0.7,
		Flexibility:      0.6,
		ConvergenceDelta: 1.0,
	}
}

func DefaultDeliveryStrategy() Strategy {
	return Strategy{
		RoundCap:         4,
		AcceptThreshold:  0.85,
		Eagerness:        0.6,
		Flexibility:      0.5,
		ConvergenceDelta: 1.0,
	}
}

func DefaultStrategy(kind Kind) Strategy {
	if kind == KindDelivery {
		return DefaultDeliveryStrategy()
	}

	return DefaultProductStrategy()
}

func (s Strategy) Validate() error {
	if s.RoundCap < 1 {
		return fmt.Errorf("%w: round cap must be at least 1", ErrInvalidStrategy)
	}
	if !inUnitInterval(s.Eagerness) {
		return fmt.Errorf("%w: eagerness %.2f outside [0,1]", ErrInvalidStrategy, s.Eagerness)
	}
	if !inUnitInterval(s.Flexibility) {
		return fmt.Errorf("%w: flexibility %.2f outside [0,1]", ErrInvalidStrategy, s.Flexibility)
	}
	if !isFinite(s.AcceptThreshold) || s.AcceptThreshold < 0 {
		return fmt.Errorf("%w: accept threshold must be a non-negative number", ErrInvalidStrategy)
	}
	if !isFinite(s.ConvergenceDelta) || s.ConvergenceDelta < 0 {
		return fmt.Errorf("%w: convergence delta must be a non-negative number", ErrInvalidStrategy)
	}

	return nil
}

func inUnitInterval(v float64) bool {
	return isFinite(v) && v >= 0 && v <= 1
}
