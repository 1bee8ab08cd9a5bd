package app

import (
	"context"

	"github.com/dwikikusuma/distributor-portal/internal/order/domain"
)

// TokenSource performs a fresh credential exchange on every call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// OrderGateway submits a payload with a bearer token. Failures are returned
// as *domain.SubmitError already classified.
type OrderGateway interface {
	CreateOrder(ctx context.Context, token string, p domain.Payload) (domain.Receipt, error)
}

type CartStore interface {
	Lines(ctx context.Context) ([]domain.Line, error)
	Clear(ctx context.Context) error
}
