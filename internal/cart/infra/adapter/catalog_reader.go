package adapter

import (
	"context"
	"errors"
	"fmt"

	cartapp "github.com/dwikikusuma/distributor-portal/internal/cart/app"
	cartdomain "github.com/dwikikusuma/distributor-portal/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/distributor-portal/internal/catalog/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) LineItem(ctx context.Context, productID string) (cartdomain.LineItem, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
			return cartdomain.LineItem{}, cartapp.ErrProductNotFound
		}
		return cartdomain.LineItem{}, fmt.Errorf("%w: %w", cartapp.ErrCatalogUnavailable, err)
	}

	return cartdomain.LineItem{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Unit:        p.Unit,
		Price:       p.Price,
		MRP:         p.MRP,
		MinOrderQty: p.MinOrderQty,
		Schemes:     append([]string(nil), p.Schemes...),
	}, nil
}
