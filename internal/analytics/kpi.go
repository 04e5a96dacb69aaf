package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/stockdesk/internal/inventory"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/settings"
)

// Summary contains the figures surfaced on the dashboard.
type Summary struct {
	Products       int              `json:"products"`
	Transactions   int              `json:"transactions"`
	LowStock       int              `json:"lowStock"`
	UnitsInStock   int              `json:"unitsInStock"`
	Sales          int              `json:"sales"`
	Purchases      int              `json:"purchases"`
	Totals         inventory.Totals `json:"totals"`
	PotentialValue decimal.Decimal  `json:"potentialValue"`
}

// Summarize computes the dashboard summary. PotentialValue is current stock
// valued at sell prices.
func Summarize(items []products.Product, txs []inventory.Transaction, cfg settings.Settings) Summary {
	summary := Summary{
		Products:       len(items),
		Transactions:   len(txs),
		Totals:         inventory.ComputeTotals(items, txs),
		PotentialValue: decimal.Zero,
	}
	for _, p := range items {
		summary.UnitsInStock += p.Stock
		if cfg.IsLowStock(p.Stock) {
			summary.LowStock++
		}
		summary.PotentialValue = summary.PotentialValue.Add(p.SellPrice.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	for _, tx := range txs {
		switch tx.Type {
		case inventory.DirectionOut:
			summary.Sales++
		case inventory.DirectionIn:
			summary.Purchases++
		}
	}
	return summary
}
