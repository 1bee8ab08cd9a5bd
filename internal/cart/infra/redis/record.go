package redis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dwikikusuma/distributor-portal/internal/cart/domain"
	"github.com/dwikikusuma/distributor-portal/pkg/money"
)

// lineRecord is the persisted shape of a line item. Other readers of the
// cart key rely on exactly this field set.
type lineRecord struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Unit        string      `json:"unit"`
	Price       json.Number `json:"price"`
	MRP         json.Number `json:"mrp"`
	Quantity    int         `json:"quantity"`
	MinOrderQty int         `json:"minOrderQty"`
	Schemes     []string    `json:"schemes"`
}

type templateRecord struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"createdAt"`
	Items     []lineRecord `json:"items"`
}

func toRecords(items []domain.LineItem) []lineRecord {
	out := make([]lineRecord, 0, len(items))
	for _, it := range items {
		schemes := it.Schemes
		if schemes == nil {
			schemes = []string{}
		}
		out = append(out, lineRecord{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Image:       it.Image,
			Unit:        it.Unit,
			Price:       money.Number(it.Price),
			MRP:         money.Number(it.MRP),
			Quantity:    it.Quantity,
			MinOrderQty: it.MinOrderQty,
			Schemes:     schemes,
		})
	}
	return out
}

func fromRecords(records []lineRecord) ([]domain.LineItem, error) {
	out := make([]domain.LineItem, 0, len(records))
	for _, r := range records {
		price, err := money.FromNumber(r.Price)
		if err != nil {
			return nil, fmt.Errorf("item %s price: %w", r.ID, err)
		}
		mrp, err := money.FromNumber(r.MRP)
		if err != nil {
			return nil, fmt.Errorf("item %s mrp: %w", r.ID, err)
		}
		out = append(out, domain.LineItem{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Image:       r.Image,
			Unit:        r.Unit,
			Price:       price,
			MRP:         mrp,
			Quantity:    r.Quantity,
			MinOrderQty: r.MinOrderQty,
			Schemes:     r.Schemes,
		})
	}
	return out, nil
}
