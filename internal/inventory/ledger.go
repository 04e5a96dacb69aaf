package inventory

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
)

// Result pairs the product after a movement with the transaction it produced.
type Result struct {
	Product     products.Product
	Transaction Transaction
}

// ApplyStockOperation validates op against product and returns the new product
// state plus the transaction to append. Only Stock changes on the product.
// Profit uses the prices current at the moment of sale; stock is fungible and
// not costed per lot. On error nothing is returned and nothing is mutated.
func ApplyStockOperation(product products.Product, op Operation) (Result, error) {
	if !op.Direction.Valid() {
		return Result{}, ErrInvalidDirection
	}
	if op.Amount <= 0 {
		return Result{}, ErrInvalidQuantity
	}
	if op.Direction == DirectionOut && op.Amount > product.Stock {
		return Result{}, ErrInsufficientStock
	}
	// Written as a subtraction so the check itself cannot overflow.
	if op.Direction == DirectionIn && op.Amount > products.MaxStock-product.Stock {
		return Result{}, ErrStockLimit
	}

	qty := decimal.NewFromInt(int64(op.Amount))
	updated := product
	tx := Transaction{
		ID:          op.TxID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        op.Direction,
		Amount:      op.Amount,
		Date:        op.At,
	}
	switch op.Direction {
	case DirectionIn:
		updated.Stock = product.Stock + op.Amount
		tx.Price = product.BuyPrice
		tx.Total = qty.Mul(product.BuyPrice)
		tx.Profit = decimal.Zero
	case DirectionOut:
		updated.Stock = product.Stock - op.Amount
		tx.Price = product.SellPrice
		tx.Total = qty.Mul(product.SellPrice)
		tx.Profit = qty.Mul(product.UnitMargin())
	}
	return Result{Product: updated, Transaction: tx}, nil
}

// ParseAmount parses a user supplied quantity. Anything but a positive base-10
// integer is rejected.
func ParseAmount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}
