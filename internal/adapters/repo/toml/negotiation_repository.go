package toml

import (
	"context"
	"sync"

	"github.com/bnema/haggle/internal/domain"
	"github.com/bnema/haggle/internal/ports"
	"github.com/spf13/viper"
)

const negotiationsLabel = "negotiations"

type NegotiationRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.NegotiationRepository = (*NegotiationRepository)(nil)

func NewNegotiationRepository(cfg *viper.Viper) (*NegotiationRepository, error) {
	path, err := resolvePath(cfg, NegotiationsPathKey, negotiationsFile)
	if err != nil {
		return nil, err
	}

	return &NegotiationRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *NegotiationRepository) Save(ctx context.Context, negotiation domain.Negotiation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var file negotiationsFileSchema
	if err := readTOMLFile(r.path, negotiationsLabel, &file); err != nil {
		return err
	}

	encoded := toNegotiationSchema(negotiation)
	updated := false
	for i := range file.Negotiations {
		if file.Negotiations[i].ID == encoded.ID {
			file.Negotiations[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Negotiations = append(file.Negotiations, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeTOMLFile(r.path, negotiationsLabel, &file)
}

func (r *NegotiationRepository) GetByID(ctx context.Context, id domain.NegotiationID) (domain.Negotiation, error) {
	negotiations, err := r.List(ctx)
	if err != nil {
		return domain.Negotiation{}, err
	}

	for _, negotiation := range negotiations {
		if negotiation.ID == id {
			return negotiation, nil
		}
	}

	return domain.Negotiation{}, domain.ErrNegotiationNotFound
}

func (r *NegotiationRepository) List(ctx context.Context) ([]domain.Negotiation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var file negotiationsFileSchema
	if err := readTOMLFile(r.path, negotiationsLabel, &file); err != nil {
		return nil, err
	}

	negotiations := make([]domain.Negotiation, 0, len(file.Negotiations))
	for _, entry := range file.Negotiations {
		negotiations = append(negotiations, fromNegotiationSchema(entry))
	}

	return negotiations, nil
}

func toNegotiationSchema(negotiation domain.Negotiation) negotiationSchema {
	state := negotiation.State
	rounds := make([]roundSchema, 0, len(negotiation.Rounds))
	for _, round := range negotiation.Rounds {
		rounds = append(rounds, roundSchema{
			Number: round.Number,
			Offer:  round.Offer,
			At:     formatTime(round.At),
			Decision: decisionSchema{
				Outcome:  string(round.Decision.Outcome),
				Reason:   string(round.Decision.Reason),
				Price:    round.Decision.Price,
				Message:  round.Decision.Message,
				Continue: round.Decision.Continue,
			},
		})
	}

	return negotiationSchema{
		ID:           string(negotiation.ID),
		Kind:         string(negotiation.Subject.Kind),
		RefID:        negotiation.Subject.RefID,
		OpeningPrice: negotiation.OpeningPrice,
		CreatedAt:    formatTime(negotiation.CreatedAt),
		UpdatedAt:    formatTime(negotiation.UpdatedAt),
		State: stateSchema{
			Round:       state.Round,
			Status:      string(state.Status),
			LastOffer:   state.LastOffer,
			LastCounter: state.LastCounter,
			Bounds: boundsSchema{
				Min:         state.Bounds.Min,
				Max:         state.Bounds.Max,
				MaxDiscount: state.Bounds.MaxDiscount,
			},
			Strategy: strategySchema{
				RoundCap:         state.Strategy.RoundCap,
				AcceptThreshold:  state.Strategy.AcceptThreshold,
				Eagerness:        state.Strategy.Eagerness,
				Flexibility:      state.Strategy.Flexibility,
				ConvergenceDelta: state.Strategy.ConvergenceDelta,
			},
		},
		Rounds: rounds,
	}
}

func fromNegotiationSchema(schema negotiationSchema) domain.Negotiation {
	kind := domain.Kind(schema.Kind)
	var rounds []domain.Round
	for _, round := range schema.Rounds {
		rounds = append(rounds, domain.Round{
			Number: round.Number,
			Offer:  round.Offer,
			At:     parseTime(round.At),
			Decision: domain.Decision{
				Outcome:  domain.Outcome(round.Decision.Outcome),
				Reason:   domain.RejectReason(round.Decision.Reason),
				Price:    round.Decision.Price,
				Message:  round.Decision.Message,
				Continue: round.Decision.Continue,
			},
		})
	}

	status := domain.Status(schema.State.Status)
	if status == "" {
		status = domain.StatusOpen
	}

	return domain.Negotiation{
		ID:      domain.NegotiationID(schema.ID),
		Subject: domain.Subject{Kind: kind, RefID: schema.RefID},
		State: domain.State{
			Kind: kind,
			Bounds: domain.Bounds{
				Min:         schema.State.Bounds.Min,
				Max:         schema.State.Bounds.Max,
				MaxDiscount: schema.State.Bounds.MaxDiscount,
			},
			Strategy: domain.Strategy{
				RoundCap:         schema.State.Strategy.RoundCap,
				AcceptThreshold:  schema.State.Strategy.AcceptThreshold,
				Eagerness:        schema.State.Strategy.Eagerness,
				Flexibility:      schema.State.Strategy.Flexibility,
				ConvergenceDelta: schema.State.Strategy.ConvergenceDelta,
			},
			Round:       schema.State.Round,
			LastOffer:   schema.State.LastOffer,
			LastCounter: schema.State.LastCounter,
			Status:      status,
		},
		OpeningPrice: schema.OpeningPrice,
		Rounds:       rounds,
		CreatedAt:    parseTime(schema.CreatedAt),
		UpdatedAt:    parseTime(schema.UpdatedAt),
	}
}
