package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxStock caps the units a product can hold so stock arithmetic stays far
// from integer overflow.
const MaxStock = 1_000_000_000

// Product represents a stocked item.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Stock     int             `json:"stock"`
	BuyPrice  decimal.Decimal `json:"buyPrice"`
	SellPrice decimal.Decimal `json:"sellPrice"`
	Code      string          `json:"code"`
	CreatedAt time.Time       `json:"createdAt"`
}

// UnitMargin is the profit made on one unit at current prices.
func (p Product) UnitMargin() decimal.Decimal {
	return p.SellPrice.Sub(p.BuyPrice)
}

// StockValue is stock valued at the buy price.
func (p Product) StockValue() decimal.Decimal {
	return p.BuyPrice.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// Matches reports whether ref identifies p by id or by display code.
func (p Product) Matches(ref string) bool {
	return ref != "" && (p.ID == ref || p.Code == ref)
}
