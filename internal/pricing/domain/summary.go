package domain

import "github.com/shopspring/decimal"

var (
	DefaultTaxRate = decimal.RequireFromString("0.18")

	hundred = decimal.NewFromInt(100)
)

// Item is the pricing view of a cart line.
type Item struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	MRP      decimal.Decimal
	Quantity int
}

type Line struct {
	ID              string
	Name            string
	Quantity        int
	Price           decimal.Decimal
	MRP             decimal.Decimal
	LineTotal       decimal.Decimal
	DiscountPercent int64
}

type Summary struct {
	Lines     []Line
	Subtotal  decimal.Decimal
	MRPTotal  decimal.Decimal
	Savings   decimal.Decimal
	TaxRate   decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// Summarize computes every figure from items alone. Tax is rounded to a whole
// currency unit, halves away from zero.
func Summarize(items []Item, taxRate decimal.Decimal) Summary {
	s := Summary{
		Lines:    make([]Line, 0, len(items)),
		Subtotal: decimal.Zero,
		MRPTotal: decimal.Zero,
		TaxRate:  taxRate,
	}

	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		lineTotal := it.Price.Mul(qty)

		s.Subtotal = s.Subtotal.Add(lineTotal)
		s.MRPTotal = s.MRPTotal.Add(it.MRP.Mul(qty))
		s.ItemCount += it.Quantity

		s.Lines = append(s.Lines, Line{
			ID:              it.ID,
			Name:            it.Name,
			Quantity:        it.Quantity,
			Price:           it.Price,
			MRP:             it.MRP,
			LineTotal:       lineTotal,
			DiscountPercent: LineDiscountPercent(it.Price, it.MRP),
		})
	}

	s.Savings = s.MRPTotal.Sub(s.Subtotal)
	s.Tax = s.Subtotal.Mul(taxRate).Round(0)
	s.Total = s.Subtotal.Add(s.Tax)
	return s
}

// LineDiscountPercent is round((mrp-price)/mrp*100), or 0 when mrp is zero.
// Halves round away from zero in both directions, so a price 0.5% above mrp
// yields -1 rather than the 0 a round-half-up rule would give.
func LineDiscountPercent(price, mrp decimal.Decimal) int64 {
	if mrp.IsZero() {
		return 0
	}
	return mrp.Sub(price).Div(mrp).Mul(hundred).Round(0).IntPart()
}
