package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bnema/haggle/internal/domain"
	"github.com/bnema/haggle/internal/geo"
	"github.com/bnema/haggle/internal/ports"
)

type Strategies struct {
	Product  domain.Strategy
	Delivery domain.Strategy
}

func DefaultStrategies() Strategies {
	return Strategies{
		Product:  domain.DefaultProductStrategy(),
		Delivery: domain.DefaultDeliveryStrategy(),
	}
}

func (s Strategies) For(kind domain.Kind) domain.Strategy {
	if kind == domain.KindDelivery {
		return s.Delivery
	}

	return s.Product
}

type NegotiationOptions struct {
	Strategies Strategies
	Distance   domain.DistanceFunc
	Logger     *slog.Logger
}

type NegotiationService struct {
	catalog      ports.CatalogRepository
	negotiations ports.NegotiationRepository
	ids          ports.IDGenerator
	clock        ports.Clock
	strategies   Strategies
	distance     domain.DistanceFunc
	logger       *slog.Logger
	locks        negotiationLocks
}

func NewNegotiationService(catalog ports.CatalogRepository, negotiations ports.NegotiationRepository, ids ports.IDGenerator, clock ports.Clock, opts NegotiationOptions) *NegotiationService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if opts.Strategies == (Strategies{}) {
		opts.Strategies = DefaultStrategies()
	}
	if opts.Distance == nil {
		opts.Distance = geo.Haversine
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &NegotiationService{
		catalog:      catalog,
		negotiations: negotiations,
		ids:          ids,
		clock:        clock,
		strategies:   opts.Strategies,
		distance:     opts.Distance,
		logger:       opts.Logger,
	}
}

func (s *NegotiationService) StartProduct(ctx context.Context, productID domain.ProductID) (domain.Negotiation, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.Negotiation{}, fmt.Errorf("get product: %w", err)
	}

	bounds, err := domain.ProductBounds(product)
	if err != nil {
		return domain.Negotiation{}, err
	}

	return s.start(ctx, domain.Subject{Kind: domain.KindProduct, RefID: string(product.ID)}, bounds)
}

func (s *NegotiationService) StartDelivery(ctx context.Context, orderID domain.OrderID) (domain.Negotiation, error) {
	order, err := s.catalog.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Negotiation{}, fmt.Errorf("get order: %w", err)
	}
	if order.Status == domain.OrderStatusDelivered {
		return domain.Negotiation{}, fmt.Errorf("order %s already delivered: %w", order.ID, domain.ErrNotNegotiable)
	}

	shop, err := s.catalog.GetShop(ctx, order.ShopID)
	if err != nil {
		return domain.Negotiation{}, fmt.Errorf("get shop: %w", err)
	}

	bounds := domain.DeliveryBounds(shop.Location, order.Delivery, s.distance)

	return s.start(ctx, domain.Subject{Kind: domain.KindDelivery, RefID: string(order.ID)}, bounds)
}

func (s *NegotiationService) start(ctx context.Context, subject domain.Subject, bounds domain.Bounds) (domain.Negotiation, error) {
	state, err := domain.NewState(subject.Kind, bounds, s.strategies.For(subject.Kind))
	if err != nil {
		return domain.Negotiation{}, err
	}

	now := s.clock.Now()
	negotiation := domain.Negotiation{
		ID:           domain.NegotiationID(s.ids.NewID()),
		Subject:      subject,
		State:        state,
		OpeningPrice: domain.Open(state),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.negotiations.Save(ctx, negotiation); err != nil {
		return domain.Negotiation{}, fmt.Errorf("save negotiation: %w", err)
	}

	s.logger.Info("negotiation started",
		"id", negotiation.ID,
		"kind", subject.Kind,
		"ref", subject.RefID,
		"min", bounds.Min,
		"max", bounds.Max,
		"opening", negotiation.OpeningPrice,
	)

	return negotiation, nil
}

// SubmitOffer evaluates one offer against the stored negotiation. Offers on
// the same negotiation are applied one at a time so each counts as a round.
func (s *NegotiationService) SubmitOffer(ctx context.Context, cmd SubmitOfferCommand) (domain.Negotiation, domain.Decision, error) {
	unlock := s.locks.lock(cmd.NegotiationID)
	defer unlock()

	negotiation, err := s.negotiations.GetByID(ctx, cmd.NegotiationID)
	if err != nil {
		return domain.Negotiation{}, domain.Decision{}, fmt.Errorf("get negotiation: %w", err)
	}

	next, decision, err := domain.Evaluate(negotiation.State, cmd.Offer)
	if err != nil {
		return domain.Negotiation{}, domain.Decision{}, fmt.Errorf("evaluate offer: %w", err)
	}

	now := s.clock.Now()
	negotiation.State = next
	negotiation.Rounds = append(negotiation.Rounds, domain.Round{
		Number:   next.Round,
		Offer:    cmd.Offer,
		Decision: decision,
		At:       now,
	})
	negotiation.UpdatedAt = now

	if err := s.negotiations.Save(ctx, negotiation); err != nil {
		return domain.Negotiation{}, domain.Decision{}, fmt.Errorf("save negotiation: %w", err)
	}

	s.logger.Info("offer evaluated",
		"id", negotiation.ID,
		"round", next.Round,
		"offer", cmd.Offer,
		"outcome", decision.Outcome,
		"reason", decision.Reason,
		"counter", decision.Price,
		"status", next.Status,
	)

	return negotiation, decision, nil
}

func (s *NegotiationService) Get(ctx context.Context, id domain.NegotiationID) (domain.Negotiation, error) {
	negotiation, err := s.negotiations.GetByID(ctx, id)
	if err != nil {
		return domain.Negotiation{}, fmt.Errorf("get negotiation: %w", err)
	}

	return negotiation, nil
}

func (s *NegotiationService) List(ctx context.Context) ([]NegotiationSummary, error) {
	negotiations, err := s.negotiations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list negotiations: %w", err)
	}

	summaries := make([]NegotiationSummary, 0, len(negotiations))
	for _, negotiation := range negotiations {
		summaries = append(summaries, summarize(negotiation))
	}

	return summaries, nil
}

// Evaluate runs a round over caller-held state without touching storage.
func (s *NegotiationService) Evaluate(state domain.State, offer float64) (domain.State, domain.Decision, error) {
	next, decision, err := domain.Evaluate(state, offer)
	if err != nil {
		return state, domain.Decision{}, err
	}

	s.logger.Debug("stateless offer evaluated",
		"kind", next.Kind,
		"round", next.Round,
		"offer", offer,
		"outcome", decision.Outcome,
	)

	return next, decision, nil
}

// NewState builds a fresh state for stateless callers using the configured
// strategy for kind.
func (s *NegotiationService) NewState(kind domain.Kind, bounds domain.Bounds) (domain.State, error) {
	return domain.NewState(kind, bounds, s.strategies.For(kind))
}
