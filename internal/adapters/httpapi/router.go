package httpapi

import (
	"context"
	"log/slog"

	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/domain"
	"github.com/go-chi/chi/v5"
)

type NegotiationAPI interface {
	StartProduct(ctx context.Context, productID domain.ProductID) (domain.Negotiation, error)
	StartDelivery(ctx context.Context, orderID domain.OrderID) (domain.Negotiation, error)
	SubmitOffer(ctx context.Context, cmd application.SubmitOfferCommand) (domain.Negotiation, domain.Decision, error)
	Get(ctx context.Context, id domain.NegotiationID) (domain.Negotiation, error)
	List(ctx context.Context) ([]application.NegotiationSummary, error)
	Evaluate(state domain.State, offer float64) (domain.State, domain.Decision, error)
	NewState(kind domain.Kind, bounds domain.Bounds) (domain.State, error)
}

type QuoteAPI interface {
	DeliveryQuote(ctx context.Context, id domain.OrderID) (application.DeliveryQuote, error)
}

// TokenSealer is optional; without one /v1/evaluate only accepts plain state.
type TokenSealer interface {
	Seal(state domain.State) (string, error)
	Open(token string) (domain.State, error)
}

type Deps struct {
	Negotiations NegotiationAPI
	Quotes       QuoteAPI
	Tokens       TokenSealer
	Logger       *slog.Logger
}

func NewRouter(deps Deps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	negotiationH := NewNegotiationHandler(deps.Negotiations)
	evaluateH := NewEvaluateHandler(deps.Negotiations, deps.Tokens)
	orderH := NewOrderHandler(deps.Quotes)

	r.Get("/health", Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", evaluateH.Evaluate)

		r.Route("/negotiations", func(r chi.Router) {
			r.Get("/", negotiationH.List)
			r.Post("/products/{id}", negotiationH.StartProduct)
			r.Post("/orders/{id}", negotiationH.StartDelivery)
			r.Get("/{id}", negotiationH.Get)
			r.Post("/{id}/offers", negotiationH.SubmitOffer)
		})

		r.Get("/orders/{id}/quote", orderH.Quote)
	})

	return r
}
