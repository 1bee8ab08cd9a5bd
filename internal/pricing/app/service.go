package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/distributor-portal/internal/pricing/domain"
)

type CartReader interface {
	CartItems(ctx context.Context) ([]domain.Item, error)
}

type Service struct {
	Cart CartReader

	taxRate decimal.Decimal
}

func NewService(cart CartReader, taxRate decimal.Decimal) *Service {
	if taxRate.IsNegative() {
		taxRate = domain.DefaultTaxRate
	}
	return &Service{
		Cart:    cart,
		taxRate: taxRate,
	}
}

// Quote summarizes the live cart. Nothing is cached between calls.
func (s *Service) Quote(ctx context.Context) (domain.Summary, error) {
	items, err := s.Cart.CartItems(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("read cart: %w", err)
	}
	return domain.Summarize(items, s.taxRate), nil
}

func (s *Service) TaxRate() decimal.Decimal {
	return s.taxRate
}
