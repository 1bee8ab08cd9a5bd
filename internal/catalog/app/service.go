package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/distributor-portal/internal/catalog/domain"
	"github.com/dwikikusuma/distributor-portal/pkg/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	CategoryAll     = "All"
	CategoryGeneral = "General"
)

// Defaults fill in what the provider leaves blank.
type Defaults struct {
	MinOrderQty      int
	Unit             string
	MRPMarkup        decimal.Decimal
	PlaceholderImage string
	SectionSize      int
}

type Filter struct {
	Search   string
	Category string
}

type Sections struct {
	Discount20 []domain.Product
	Discount10 []domain.Product
	Discount5  []domain.Product
	NoDiscount []domain.Product
}

type Service struct {
	provider ProductProvider
	defaults Defaults
	log      *slog.Logger

	mu       sync.RWMutex
	products []domain.Product
	loaded   bool
}

func NewService(provider ProductProvider, defaults Defaults, log *slog.Logger) *Service {
	if defaults.SectionSize <= 0 {
		defaults.SectionSize = 6
	}
	return &Service{
		provider: provider,
		defaults: defaults,
		log:      logger.OrDefault(log),
	}
}

// Load fetches the listing, applies defaults and promotions, and replaces the
// cached listing. Offers stay fixed until the next Load.
func (s *Service) Load(ctx context.Context) ([]domain.Product, error) {
	raw, err := s.provider.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	products := make([]domain.Product, 0, len(raw))
	for _, p := range raw {
		products = append(products, s.withDefaults(p))
	}
	products = AssignPromotions(products)

	s.mu.Lock()
	s.products = products
	s.loaded = true
	s.mu.Unlock()

	s.log.Info("catalog loaded", slog.Int("products", len(products)))
	return clone(products), nil
}

func (s *Service) cached(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	if s.loaded {
		out := clone(s.products)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()
	return s.Load(ctx)
}

func (s *Service) ListProducts(ctx context.Context, f Filter) ([]domain.Product, error) {
	products, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	category := strings.TrimSpace(f.Category)
	if category == CategoryAll {
		category = ""
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, ErrInvalidInput
	}

	products, err := s.cached(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

// Sections groups products by bulk tier, each tier capped at the configured
// section size. Products without a tier are returned in full.
func (s *Service) Sections(products []domain.Product) Sections {
	var sec Sections
	for _, p := range products {
		switch p.Offer.BulkDiscount {
		case 20:
			sec.Discount20 = appendCapped(sec.Discount20, p, s.defaults.SectionSize)
		case 10:
			sec.Discount10 = appendCapped(sec.Discount10, p, s.defaults.SectionSize)
		case 5:
			sec.Discount5 = appendCapped(sec.Discount5, p, s.defaults.SectionSize)
		default:
			if !p.Discounted() {
				sec.NoDiscount = append(sec.NoDiscount, p)
			}
		}
	}
	return sec
}

// Categories returns "All" followed by each distinct category in first-seen
// order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := []string{CategoryAll}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func (s *Service) withDefaults(p domain.Product) domain.Product {
	if strings.TrimSpace(p.Category) == "" {
		p.Category = CategoryGeneral
	}
	if p.MRP.IsZero() && !s.defaults.MRPMarkup.IsZero() {
		p.MRP = p.Price.Mul(s.defaults.MRPMarkup)
	}
	if strings.TrimSpace(p.Image) == "" {
		p.Image = s.defaults.PlaceholderImage
	}
	if p.MinOrderQty <= 0 {
		p.MinOrderQty = s.defaults.MinOrderQty
	}
	if strings.TrimSpace(p.Unit) == "" {
		p.Unit = s.defaults.Unit
	}
	return p
}

func appendCapped(dst []domain.Product, p domain.Product, limit int) []domain.Product {
	if len(dst) >= limit {
		return dst
	}
	return append(dst, p)
}

func clone(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		p.Schemes = append([]string(nil), p.Schemes...)
		out[i] = p
	}
	return out
}
