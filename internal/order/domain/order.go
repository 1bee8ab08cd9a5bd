package domain

import "github.com/shopspring/decimal"

// Line is one cart line as the order backend sees it.
type Line struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Payload is built fresh for every attempt, one line per cart line in cart
// order.
type Payload struct {
	AccountID string
	Items     []Line
}

func BuildPayload(accountID string, lines []Line) Payload {
	items := make([]Line, len(lines))
	copy(items, lines)
	return Payload{AccountID: accountID, Items: items}
}

// Receipt is what the backend returns for an accepted order.
type Receipt struct {
	OrderNumber    string
	ContractNumber string
}
