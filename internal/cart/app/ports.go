package app

import (
	"context"

	"github.com/dwikikusuma/distributor-portal/internal/cart/domain"
)

// SnapshotStore persists the whole cart under a single key. Save replaces the
// previous snapshot in full.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
}

type TemplateRepo interface {
	Save(ctx context.Context, t domain.Template) error
	Get(ctx context.Context, name string) (domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
	Delete(ctx context.Context, name string) error
}

// ProductCatalog resolves a catalog product into a line item carrying the
// product's display metadata, prices and minimum order quantity.
type ProductCatalog interface {
	LineItem(ctx context.Context, productID string) (domain.LineItem, error)
}
