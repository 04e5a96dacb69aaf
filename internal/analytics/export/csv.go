// Package export writes reports and the transaction log as CSV.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/odyssey-erp/stockdesk/internal/analytics"
	"github.com/odyssey-erp/stockdesk/internal/inventory"
)

// WriteSummaryCSV serialises the dashboard summary as metric/value pairs.
func WriteSummaryCSV(w io.Writer, summary analytics.Summary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Products", strconv.Itoa(summary.Products)},
		{"Units In Stock", strconv.Itoa(summary.UnitsInStock)},
		{"Low Stock Products", strconv.Itoa(summary.LowStock)},
		{"Transactions", strconv.Itoa(summary.Transactions)},
		{"Sales", strconv.Itoa(summary.Sales)},
		{"Purchases", strconv.Itoa(summary.Purchases)},
		{"Inventory Value", summary.Totals.InventoryValue.String()},
		{"Potential Value", summary.PotentialValue.String()},
		{"Cash Balance", summary.Totals.CashBalance.String()},
		{"Total Profit", summary.Totals.TotalProfit.String()},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTrendCSV emits the income/expense/profit trend as CSV.
func WriteTrendCSV(w io.Writer, points []analytics.TrendPoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Period", "Income", "Expense", "Profit", "Net"}); err != nil {
		return err
	}
	for _, point := range points {
		if err := writer.Write([]string{
			point.Period,
			point.Income.String(),
			point.Expense.String(),
			point.Profit.String(),
			point.Net().String(),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTransactionsCSV prints the transaction log in the given order.
func WriteTransactionsCSV(w io.Writer, txs []inventory.Transaction) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Date", "Type", "Product ID", "Product", "Amount", "Price", "Total", "Profit"}); err != nil {
		return err
	}
	for _, tx := range txs {
		if err := writer.Write([]string{
			tx.Date.UTC().Format(time.RFC3339),
			string(tx.Type),
			tx.ProductID,
			tx.ProductName,
			strconv.Itoa(tx.Amount),
			tx.Price.String(),
			tx.Total.String(),
			tx.Profit.String(),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
