package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/distributor-portal/internal/cart/app"
	pricingdomain "github.com/dwikikusuma/distributor-portal/internal/pricing/domain"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) CartItems(ctx context.Context) ([]pricingdomain.Item, error) {
	cart := r.svc.Snapshot()

	items := make([]pricingdomain.Item, 0, cart.Len())
	for _, it := range cart.Items {
		items = append(items, pricingdomain.Item{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			MRP:      it.MRP,
			Quantity: it.Quantity,
		})
	}
	return items, nil
}
