package app

import (
	"context"

	"github.com/dwikikusuma/distributor-portal/internal/catalog/domain"
)

// ProductProvider returns the raw listing in display order. Offer and any
// defaulted fields are left zero; the service fills them in.
type ProductProvider interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}
