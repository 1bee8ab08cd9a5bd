package domain

import "github.com/shopspring/decimal"

// ProductOffer is the merchandising annotation assigned once per listing.
// LimitedTimeDiscount is 0 whenever LimitedTimeOffer is false.
type ProductOffer struct {
	BulkDiscount        int
	LimitedTimeOffer    bool
	LimitedTimeDiscount int
}

type Product struct {
	ID          string
	Name        string
	Category    string
	Description string
	Image       string
	Unit        string
	Price       decimal.Decimal
	MRP         decimal.Decimal
	InStock     bool
	Schemes     []string
	MinOrderQty int
	Offer       ProductOffer
}

// Discounted reports whether the product landed in one of the bulk tiers.
func (p Product) Discounted() bool {
	return p.Offer.BulkDiscount > 0
}
