package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/distributor-portal/internal/cart/domain"
	"github.com/dwikikusuma/distributor-portal/pkg/logger"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProductNotFound = errors.New("product not found")

	// ErrCatalogUnavailable wraps product lookups that failed for reasons other
	// than an unknown id.
	ErrCatalogUnavailable = errors.New("product catalog unavailable")
)

// Service owns the live cart. Every mutation builds the next cart, persists
// it, and only then replaces the in-memory copy, so a failed write leaves both
// at the previous state.
type Service struct {
	store     SnapshotStore
	templates TemplateRepo
	log       *slog.Logger
	now       func() time.Time

	mu   sync.Mutex
	cart domain.Cart
}

func NewService(store SnapshotStore, templates TemplateRepo, log *slog.Logger) *Service {
	return &Service{
		store:     store,
		templates: templates,
		log:       logger.OrDefault(log),
		now:       time.Now,
	}
}

// Load restores the persisted snapshot. A missing, corrupt or unreachable
// snapshot yields an empty cart; the failure is logged, never returned.
func (s *Service) Load(ctx context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn("cart snapshot unreadable, starting empty", slog.Any("err", err))
		cart = domain.Cart{}
	}
	s.cart = cart
	s.log.Info("cart loaded", slog.Int("items", cart.Len()))
	return cart.Clone()
}

func (s *Service) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Service) Items() []domain.LineItem {
	return s.Snapshot().Items
}

func (s *Service) AddOrIncrement(ctx context.Context, item domain.LineItem, qty int) (domain.Cart, error) {
	if strings.TrimSpace(item.ID) == "" {
		return domain.Cart{}, ErrInvalidInput
	}
	return s.mutate(ctx, "add", func(c domain.Cart) (domain.Cart, bool, error) {
		next, err := c.AddOrIncrement(item, qty)
		return next, err == nil, err
	})
}

func (s *Service) SetQuantity(ctx context.Context, id string, qty int) (domain.Cart, error) {
	return s.mutate(ctx, "set_quantity", func(c domain.Cart) (domain.Cart, bool, error) {
		next, err := c.SetQuantity(id, qty)
		return next, err == nil, err
	})
}

func (s *Service) Remove(ctx context.Context, id string) (domain.Cart, error) {
	return s.mutate(ctx, "remove", func(c domain.Cart) (domain.Cart, bool, error) {
		next, removed := c.Remove(id)
		return next, removed, nil
	})
}

func (s *Service) Clear(ctx context.Context) error {
	_, err := s.mutate(ctx, "clear", func(c domain.Cart) (domain.Cart, bool, error) {
		return domain.Cart{}, true, nil
	})
	return err
}

// MergeItems adds a bundle of items to the cart, summing quantities for ids
// already present.
func (s *Service) MergeItems(ctx context.Context, items []domain.LineItem) (domain.Cart, error) {
	return s.mutate(ctx, "merge", func(c domain.Cart) (domain.Cart, bool, error) {
		next, err := c.Merge(items)
		return next, err == nil && len(items) > 0, err
	})
}

func (s *Service) MergeTemplate(ctx context.Context, name string) (domain.Cart, error) {
	t, err := s.Template(ctx, name)
	if err != nil {
		return domain.Cart{}, err
	}
	if len(t.Items) == 0 {
		return domain.Cart{}, emptyTemplate(name)
	}
	return s.MergeItems(ctx, t.Items)
}

// SaveAsTemplate stores the current cart contents under name, replacing any
// template with the same name.
func (s *Service) SaveAsTemplate(ctx context.Context, name string) (domain.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Template{}, ErrInvalidInput
	}

	snap := s.Snapshot()
	if snap.IsEmpty() {
		return domain.Template{}, emptyTemplate(name)
	}

	t := domain.Template{
		ID:        uuid.NewString(),
		Name:      name,
		Items:     snap.Items,
		CreatedAt: s.now().UTC(),
	}
	if err := s.templates.Save(ctx, t); err != nil {
		return domain.Template{}, fmt.Errorf("save template %q: %w", name, err)
	}
	s.log.Info("template saved", slog.String("template", name), slog.Int("items", len(t.Items)))
	return t, nil
}

func (s *Service) Template(ctx context.Context, name string) (domain.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Template{}, ErrInvalidInput
	}
	return s.templates.Get(ctx, name)
}

func (s *Service) Templates(ctx context.Context) ([]domain.Template, error) {
	return s.templates.List(ctx)
}

func (s *Service) DeleteTemplate(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidInput
	}
	return s.templates.Delete(ctx, name)
}

func emptyTemplate(name string) error {
	return fmt.Errorf("template %q: %w", name, domain.ErrEmptyTemplate)
}

// mutate applies fn to the current cart. When fn reports a change the result
// is persisted before it becomes visible.
func (s *Service) mutate(ctx context.Context, op string, fn func(domain.Cart) (domain.Cart, bool, error)) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := fn(s.cart)
	if err != nil {
		return s.cart.Clone(), err
	}
	if !changed {
		return s.cart.Clone(), nil
	}

	if err := s.store.Save(ctx, next); err != nil {
		s.log.Error("cart snapshot write failed", slog.String("op", op), slog.Any("err", err))
		return s.cart.Clone(), fmt.Errorf("persist cart: %w", err)
	}

	s.cart = next
	s.log.Debug("cart updated", slog.String("op", op), slog.Int("items", next.Len()))
	return next.Clone(), nil
}
