package app

import "github.com/dwikikusuma/distributor-portal/internal/catalog/domain"

const (
	SchemeBulkDiscount     = "Bulk Discount Available"
	SchemeLimitedTimeOffer = "Limited Time Offer"
)

// OfferForIndex assigns the bulk tier and limited-time flag from the
// zero-based position of a product in the listing.
func OfferForIndex(i int) domain.ProductOffer {
	switch i % 3 {
	case 0:
		return domain.ProductOffer{BulkDiscount: 20, LimitedTimeOffer: true, LimitedTimeDiscount: 15}
	case 1:
		o := domain.ProductOffer{BulkDiscount: 10, LimitedTimeOffer: i%2 == 0}
		if o.LimitedTimeOffer {
			o.LimitedTimeDiscount = 10
		}
		return o
	default:
		o := domain.ProductOffer{BulkDiscount: 5, LimitedTimeOffer: i%4 == 0}
		if o.LimitedTimeOffer {
			o.LimitedTimeDiscount = 5
		}
		return o
	}
}

// AssignPromotions returns a copy of products with offers and scheme text set.
// Prices are never touched.
func AssignPromotions(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		p.Offer = OfferForIndex(i)
		p.Schemes = schemesFor(p.Schemes, p.Offer)
		out[i] = p
	}
	return out
}

func schemesFor(existing []string, offer domain.ProductOffer) []string {
	schemes := make([]string, 0, len(existing)+2)
	schemes = append(schemes, existing...)
	schemes = append(schemes, SchemeBulkDiscount)
	if offer.LimitedTimeOffer {
		schemes = append(schemes, SchemeLimitedTimeOffer)
	}
	return schemes
}
