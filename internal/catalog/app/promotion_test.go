package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/distributor-portal/internal/catalog/domain"
)

func TestOfferForIndex(t *testing.T) {
	cases := []struct {
		i    int
		want domain.ProductOffer
	}{
		{0, domain.ProductOffer{BulkDiscount: 20, LimitedTimeOffer: true, LimitedTimeDiscount: 15}},
		{1, domain.ProductOffer{BulkDiscount: 10}},
		{2, domain.ProductOffer{BulkDiscount: 5}},
		{3, domain.ProductOffer{BulkDiscount: 20, LimitedTimeOffer: true, LimitedTimeDiscount: 15}},
		{4, domain.ProductOffer{BulkDiscount: 10, LimitedTimeOffer: true, LimitedTimeDiscount: 10}},
		{5, domain.ProductOffer{BulkDiscount: 5}},
		{7, domain.ProductOffer{BulkDiscount: 10}},
		{8, domain.ProductOffer{BulkDiscount: 5, LimitedTimeOffer: true, LimitedTimeDiscount: 5}},
		{10, domain.ProductOffer{BulkDiscount: 10, LimitedTimeOffer: true, LimitedTimeDiscount: 10}},
		{14, domain.ProductOffer{BulkDiscount: 5}},
	}
	for _, tc := range cases {
		if got := OfferForIndex(tc.i); got != tc.want {
			t.Fatalf("index %d: got %+v want %+v", tc.i, got, tc.want)
		}
	}
}

func TestAssignPromotions(t *testing.T) {
	in := []domain.Product{
		{ID: "A", Price: decimal.NewFromInt(100), Schemes: []string{"Free transport"}},
		{ID: "B", Price: decimal.NewFromInt(50)},
	}

	out := AssignPromotions(in)

	t.Run("prices untouched", func(t *testing.T) {
		for i := range in {
			if !out[i].Price.Equal(in[i].Price) {
				t.Fatalf("price changed for %s", in[i].ID)
			}
		}
	})

	t.Run("schemes follow provider schemes", func(t *testing.T) {
		want := []string{"Free transport", SchemeBulkDiscount, SchemeLimitedTimeOffer}
		if len(out[0].Schemes) != len(want) {
			t.Fatalf("got %v", out[0].Schemes)
		}
		for i := range want {
			if out[0].Schemes[i] != want[i] {
				t.Fatalf("got %v want %v", out[0].Schemes, want)
			}
		}
		if len(out[1].Schemes) != 1 || out[1].Schemes[0] != SchemeBulkDiscount {
			t.Fatalf("got %v", out[1].Schemes)
		}
	})

	t.Run("input not mutated", func(t *testing.T) {
		if in[0].Offer.BulkDiscount != 0 || len(in[0].Schemes) != 1 {
			t.Fatalf("input mutated: %+v", in[0])
		}
	})
}
