package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/odyssey-erp/stockdesk/internal/analytics"
	"github.com/odyssey-erp/stockdesk/internal/analytics/export"
	"github.com/odyssey-erp/stockdesk/internal/analytics/svg"
)

// ReportOptions selects the trend buckets, the date range and extra outputs.
type ReportOptions struct {
	IO
	Granularity string
	From        string
	To          string
	CSVPath     string
	SVGPath     string
	JSONOutput  bool
}

// ReportResult is the JSON shape of the report command.
type ReportResult struct {
	Summary analytics.Summary      `json:"summary"`
	Trend   []analytics.TrendPoint `json:"trend"`
}

func (c *CLI) runReport(args []string, streams IO) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	opts := ReportOptions{IO: streams}
	fs.StringVar(&opts.Granularity, "by", "monthly", "daily or monthly")
	fs.StringVar(&opts.From, "from", "", "first day, YYYY-MM-DD")
	fs.StringVar(&opts.To, "to", "", "last day, YYYY-MM-DD")
	fs.StringVar(&opts.CSVPath, "csv", "", "also write the trend as CSV")
	fs.StringVar(&opts.SVGPath, "svg", "", "also write the trend as an SVG bar chart")
	fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
	if _, err := parse(fs, args, streams.Stderr); err != nil {
		return c.flagResult(streams, err)
	}
	return c.ReportCommand(opts)
}

// ReportCommand prints the summary and the income/expense/profit trend.
func (c *CLI) ReportCommand(opts ReportOptions) int {
	opts.defaults()
	gran, err := analytics.ParseGranularity(opts.Granularity)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	filter := analytics.TrendFilter{Granularity: gran, Location: time.Local}
	if filter.From, err = parseDay(opts.From); err != nil {
		return c.fail(opts.IO, err)
	}
	to, err := parseDay(opts.To)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	if !to.IsZero() {
		// inclusive last day
		filter.To = to.AddDate(0, 0, 1)
	}

	snap := c.store.Snapshot()
	result := ReportResult{
		Summary: analytics.Summarize(snap.Products, snap.Transactions, snap.Settings),
		Trend:   analytics.Trend(snap.Transactions, filter),
	}

	if opts.CSVPath != "" {
		if err := writeFile(opts.CSVPath, func(w io.Writer) error { return export.WriteTrendCSV(w, result.Trend) }); err != nil {
			return c.fail(opts.IO, err)
		}
	}
	if opts.SVGPath != "" {
		if err := c.writeChart(opts.SVGPath, result.Trend, gran); err != nil {
			return c.fail(opts.IO, err)
		}
	}
	if opts.JSONOutput {
		return c.emitJSON(opts.IO, result)
	}

	currency := snap.Settings.Currency
	s := result.Summary
	w := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Products\t%d (%d low on stock)\n", s.Products, s.LowStock)
	fmt.Fprintf(w, "Units in stock\t%s\n", c.money.Number(s.UnitsInStock))
	fmt.Fprintf(w, "Transactions\t%d (%d sales, %d purchases)\n", s.Transactions, s.Sales, s.Purchases)
	fmt.Fprintf(w, "Inventory value\t%s\n", c.money.Format(s.Totals.InventoryValue, currency))
	fmt.Fprintf(w, "Potential value\t%s\n", c.money.Format(s.PotentialValue, currency))
	fmt.Fprintf(w, "Cash balance\t%s\n", c.money.Format(s.Totals.CashBalance, currency))
	fmt.Fprintf(w, "Total profit\t%s\n", c.money.Format(s.Totals.TotalProfit, currency))
	_ = w.Flush()

	if len(result.Trend) == 0 {
		fmt.Fprintln(opts.Stdout, "\nno transactions in range")
		return ExitOK
	}
	fmt.Fprintln(opts.Stdout)
	w = tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tINCOME\tEXPENSE\tPROFIT")
	for _, p := range result.Trend {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Period,
			c.money.Format(p.Income, currency),
			c.money.Format(p.Expense, currency),
			c.money.Format(p.Profit, currency))
	}
	_ = w.Flush()

	if low := c.store.LowStock(); len(low) > 0 {
		fmt.Fprintf(opts.Stdout, "\nlow stock: ")
		for i, p := range low {
			if i > 0 {
				fmt.Fprint(opts.Stdout, ", ")
			}
			fmt.Fprintf(opts.Stdout, "%s (%d)", p.Name, p.Stock)
		}
		fmt.Fprintln(opts.Stdout)
	}
	return ExitOK
}

func (c *CLI) writeChart(path string, points []analytics.TrendPoint, gran analytics.Granularity) error {
	if len(points) == 0 {
		return usageError("no transactions in range, nothing to chart")
	}
	labels := make([]string, len(points))
	income := make([]float64, len(points))
	expense := make([]float64, len(points))
	profit := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Period
		income[i] = p.Income.InexactFloat64()
		expense[i] = p.Expense.InexactFloat64()
		profit[i] = p.Profit.InexactFloat64()
	}
	title := "Monthly report"
	if gran == analytics.Daily {
		title = "Daily report"
	}
	chart, err := svg.Bars(svg.DefaultWidth, svg.DefaultHeight, labels, []svg.Series{
		{Label: "Income", Values: income},
		{Label: "Expense", Values: expense},
		{Label: "Profit", Values: profit},
	}, svg.BarOpts{Title: title, Description: "Income, expense and profit per period"})
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(chart), 0o644)
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, usageError("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

