package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/distributor-portal/internal/catalog/domain"
)

type fakeProvider struct {
	products []domain.Product
	err      error
	calls    int
}

func (f *fakeProvider) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	f.calls++
	return f.products, f.err
}

func testDefaults() Defaults {
	return Defaults{
		MinOrderQty:      10,
		Unit:             "units",
		MRPMarkup:        decimal.RequireFromString("1.1"),
		PlaceholderImage: "https://via.placeholder.com/150",
		SectionSize:      6,
	}
}

func rawProducts(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = domain.Product{
			ID:       fmt.Sprintf("P%d", i),
			Name:     fmt.Sprintf("TMT Bar %dmm", 8+i),
			Category: "Steel",
			Price:    decimal.NewFromInt(100),
			InStock:  true,
		}
	}
	return out
}

func TestLoadAppliesDefaults(t *testing.T) {
	provider := &fakeProvider{products: []domain.Product{
		{ID: "A", Name: "Binding Wire", Price: decimal.NewFromInt(200)},
		{ID: "B", Name: "Angle", Price: decimal.NewFromInt(50), MRP: decimal.NewFromInt(70), Category: "Steel", Image: "img.png", MinOrderQty: 5, Unit: "kg"},
	}}
	svc := NewService(provider, testDefaults(), nil)

	products, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	a := products[0]
	if a.Category != CategoryGeneral || a.Unit != "units" || a.MinOrderQty != 10 || a.Image != "https://via.placeholder.com/150" {
		t.Fatalf("defaults not applied: %+v", a)
	}
	if !a.MRP.Equal(decimal.NewFromInt(220)) {
		t.Fatalf("expected mrp 220, got %s", a.MRP)
	}
	if !a.Price.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("price changed: %s", a.Price)
	}

	b := products[1]
	if b.Category != "Steel" || b.Unit != "kg" || b.MinOrderQty != 5 || b.Image != "img.png" || !b.MRP.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("provided fields overwritten: %+v", b)
	}
}

func TestLoadProviderError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeProvider{err: boom}, testDefaults(), nil)

	_, err := svc.Load(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestListingIsCached(t *testing.T) {
	provider := &fakeProvider{products: rawProducts(3)}
	svc := NewService(provider, testDefaults(), nil)
	ctx := context.Background()

	first, err := svc.ListProducts(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	second, err := svc.ListProducts(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}

	if provider.calls != 1 {
		t.Fatalf("expected one provider call, got %d", provider.calls)
	}
	for i := range first {
		if first[i].Offer != second[i].Offer {
			t.Fatalf("offer for %s changed between reads", first[i].ID)
		}
	}
}

func TestListProductsFilter(t *testing.T) {
	provider := &fakeProvider{products: []domain.Product{
		{ID: "1", Name: "TMT Bar 12mm", Description: "Fe 500D", Category: "Steel", Price: decimal.NewFromInt(10)},
		{ID: "2", Name: "Binding Wire", Description: "for tmt bundles", Category: "Accessories", Price: decimal.NewFromInt(10)},
		{ID: "3", Name: "Cement", Description: "OPC 53", Category: "Building", Price: decimal.NewFromInt(10)},
	}}
	svc := NewService(provider, testDefaults(), nil)
	ctx := context.Background()

	t.Run("search matches name and description case-insensitively", func(t *testing.T) {
		got, err := svc.ListProducts(ctx, Filter{Search: "TMT"})
		if err != nil {
			t.Fatalf("ListProducts: %v", err)
		}
		if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
			t.Fatalf("unexpected result: %+v", got)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		got, _ := svc.ListProducts(ctx, Filter{Category: "Building"})
		if len(got) != 1 || got[0].ID != "3" {
			t.Fatalf("unexpected result: %+v", got)
		}
	})

	t.Run("All -> no category filter", func(t *testing.T) {
		got, _ := svc.ListProducts(ctx, Filter{Category: CategoryAll})
		if len(got) != 3 {
			t.Fatalf("expected 3 products, got %d", len(got))
		}
	})
}

func TestGetProduct(t *testing.T) {
	svc := NewService(&fakeProvider{products: rawProducts(2)}, testDefaults(), nil)
	ctx := context.Background()

	t.Run("blank id -> invalid", func(t *testing.T) {
		_, err := svc.GetProduct(ctx, "  ")
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown id -> not found", func(t *testing.T) {
		_, err := svc.GetProduct(ctx, "nope")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("known id carries its offer", func(t *testing.T) {
		p, err := svc.GetProduct(ctx, "P1")
		if err != nil {
			t.Fatalf("GetProduct: %v", err)
		}
		if p.Offer != OfferForIndex(1) {
			t.Fatalf("unexpected offer %+v", p.Offer)
		}
	})
}

func TestSectionsCapped(t *testing.T) {
	svc := NewService(&fakeProvider{products: rawProducts(30)}, testDefaults(), nil)

	products, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sec := svc.Sections(products)

	if len(sec.Discount20) != 6 || len(sec.Discount10) != 6 || len(sec.Discount5) != 6 {
		t.Fatalf("expected 6 per tier, got %d/%d/%d", len(sec.Discount20), len(sec.Discount10), len(sec.Discount5))
	}
	if len(sec.NoDiscount) != 0 {
		t.Fatalf("expected no undiscounted products, got %d", len(sec.NoDiscount))
	}
	if sec.Discount20[0].ID != "P0" || sec.Discount10[0].ID != "P1" || sec.Discount5[0].ID != "P2" {
		t.Fatalf("sections out of listing order")
	}

	sec = svc.Sections([]domain.Product{{ID: "X"}})
	if len(sec.NoDiscount) != 1 {
		t.Fatalf("expected untiered product in remainder")
	}
}

func TestCategories(t *testing.T) {
	got := Categories([]domain.Product{
		{Category: "Steel"}, {Category: "General"}, {Category: "Steel"}, {Category: "Cement"},
	})
	want := []string{"All", "Steel", "General", "Cement"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
