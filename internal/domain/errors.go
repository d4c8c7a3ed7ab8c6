package domain

import "errors"

var (
	ErrNotNegotiable       = errors.New("not available for negotiation")
	ErrNegotiationClosed   = errors.New("negotiation is closed")
	ErrNegotiationNotFound = errors.New("negotiation not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrShopNotFound        = errors.New("shop not found")
	ErrInvalidOffer        = errors.New("invalid offer")
	ErrInvalidBounds       = errors.New("invalid bounds")
	ErrInvalidStrategy     = errors.New("invalid strategy")
	ErrInvalidState        = errors.New("invalid negotiation state")
)
