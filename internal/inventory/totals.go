package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
)

// ComputeTotals folds the catalog and the transaction log into dashboard
// figures. It is recomputed from scratch on each call and does not modify its
// inputs. Inventory value ignores history; cash balance starts at zero.
func ComputeTotals(items []products.Product, txs []Transaction) Totals {
	totals := Totals{
		InventoryValue: decimal.Zero,
		CashBalance:    decimal.Zero,
		TotalProfit:    decimal.Zero,
	}
	for _, p := range items {
		totals.InventoryValue = totals.InventoryValue.Add(p.StockValue())
	}
	for _, tx := range txs {
		totals.CashBalance = totals.CashBalance.Add(tx.CashEffect())
		totals.TotalProfit = totals.TotalProfit.Add(tx.Profit)
	}
	return totals
}
