// Package analytics derives reports from the transaction log.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/stockdesk/internal/inventory"
	"github.com/odyssey-erp/stockdesk/internal/shared"
)

// Granularity selects the bucket size of a trend report.
type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

// ErrInvalidGranularity rejects unknown bucket sizes.
var ErrInvalidGranularity = shared.NewError(shared.ErrValidation, "analytics: granularity must be daily or monthly")

// ParseGranularity accepts daily/monthly and the short forms day/month.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return Daily, nil
	case "monthly", "month", "":
		return Monthly, nil
	}
	return "", ErrInvalidGranularity
}

func (g Granularity) layout() string {
	if g == Daily {
		return "2006-01-02"
	}
	return "2006-01"
}

// TrendFilter controls bucketing and the date range of a trend report. Zero
// From or To leave that side open. Location defaults to UTC.
type TrendFilter struct {
	Granularity Granularity
	From        time.Time
	To          time.Time
	Location    *time.Location
}

// TrendPoint is one bucket: income from sales, expense from purchases and the
// profit booked on sales.
type TrendPoint struct {
	Period  string          `json:"period"`
	Start   time.Time       `json:"start"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// Net is income minus expense for the bucket.
func (p TrendPoint) Net() decimal.Decimal {
	return p.Income.Sub(p.Expense)
}

// Trend groups txs into buckets ordered oldest first. Buckets without
// transactions are omitted.
func Trend(txs []inventory.Transaction, filter TrendFilter) []TrendPoint {
	loc := filter.Location
	if loc == nil {
		loc = time.UTC
	}
	gran := filter.Granularity
	if gran != Daily {
		gran = Monthly
	}

	buckets := make(map[string]*TrendPoint)
	for _, tx := range txs {
		if !filter.From.IsZero() && tx.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !tx.Date.Before(filter.To) {
			continue
		}
		at := tx.Date.In(loc)
		key := at.Format(gran.layout())
		point, ok := buckets[key]
		if !ok {
			point = &TrendPoint{Period: key, Start: bucketStart(at, gran)}
			buckets[key] = point
		}
		switch tx.Type {
		case inventory.DirectionOut:
			point.Income = point.Income.Add(tx.Total)
			point.Profit = point.Profit.Add(tx.Profit)
		case inventory.DirectionIn:
			point.Expense = point.Expense.Add(tx.Total)
		}
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Start.Before(points[j].Start)
	})
	return points
}

func bucketStart(t time.Time, g Granularity) time.Time {
	if g == Daily {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
