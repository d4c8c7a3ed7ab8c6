package ports

import (
	"context"

	"github.com/bnema/haggle/internal/domain"
)

type NegotiationRepository interface {
	GetByID(ctx context.Context, id domain.NegotiationID) (domain.Negotiation, error)
	List(ctx context.Context) ([]domain.Negotiation, error)
	Save(ctx context.Context, negotiation domain.Negotiation) error
}
