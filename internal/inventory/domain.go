package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/stockdesk/internal/shared"
)

// Direction enumerates supported stock movements.
type Direction string

const (
	// DirectionIn replenishes stock at the buy price.
	DirectionIn Direction = "IN"
	// DirectionOut sells stock at the sell price.
	DirectionOut Direction = "OUT"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Transaction is the immutable record of one ledger operation. ProductName is a
// snapshot taken at posting time.
type Transaction struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Type        Direction       `json:"type"`
	Amount      int             `json:"amount"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Profit      decimal.Decimal `json:"profit"`
	Date        time.Time       `json:"date"`
}

// CashEffect is the signed cash movement: sales add cash, purchases consume it.
func (t Transaction) CashEffect() decimal.Decimal {
	if t.Type == DirectionOut {
		return t.Total
	}
	return t.Total.Neg()
}

// Operation describes a requested stock movement. TxID and At are supplied by
// the caller so the engine stays deterministic.
type Operation struct {
	Direction Direction
	Amount    int
	TxID      string
	At        time.Time
}

// Totals are the derived financial figures shown on the dashboard.
type Totals struct {
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	CashBalance    decimal.Decimal `json:"cashBalance"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
}

var (
	// ErrInvalidQuantity indicates a non-numeric or non-positive amount.
	ErrInvalidQuantity = shared.NewError(shared.ErrValidation, "inventory: amount must be a positive integer")
	// ErrInvalidDirection indicates an unknown movement direction.
	ErrInvalidDirection = shared.NewError(shared.ErrValidation, "inventory: direction must be IN or OUT")
	// ErrInsufficientStock is returned when OUT exceeds available stock.
	ErrInsufficientStock = shared.NewError(shared.ErrDomainRule, "inventory: insufficient stock")
	// ErrStockLimit is returned when IN would push stock above products.MaxStock.
	ErrStockLimit = shared.NewError(shared.ErrDomainRule, "inventory: stock would exceed the maximum of 1000000000 units")
)

// ParseDirection accepts IN/OUT and the add/remove verbs, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "add":
		return DirectionIn, nil
	case "out", "remove":
		return DirectionOut, nil
	}
	return "", ErrInvalidDirection
}
