package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/distributor-portal/internal/cart/app"
	orderdomain "github.com/dwikikusuma/distributor-portal/internal/order/domain"
)

type CartServiceStore struct {
	svc *cartapp.Service
}

func NewCartServiceStore(svc *cartapp.Service) *CartServiceStore {
	return &CartServiceStore{svc: svc}
}

func (s *CartServiceStore) Lines(ctx context.Context) ([]orderdomain.Line, error) {
	cart := s.svc.Snapshot()

	lines := make([]orderdomain.Line, 0, cart.Len())
	for _, it := range cart.Items {
		lines = append(lines, orderdomain.Line{
			ProductID: it.ID,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return lines, nil
}

func (s *CartServiceStore) Clear(ctx context.Context) error {
	return s.svc.Clear(ctx)
}
