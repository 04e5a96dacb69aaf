package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/odyssey-erp/stockdesk/internal/analytics/export"
	"github.com/odyssey-erp/stockdesk/internal/inventory"
)

// StockOptions describes a stock movement.
type StockOptions struct {
	IO
	Ref        string
	Direction  inventory.Direction
	Amount     string
	JSONOutput bool
}

// TxListOptions limits the transaction listing.
type TxListOptions struct {
	IO
	Limit      int
	JSONOutput bool
}

// TxExportOptions selects the CSV destination; "-" or empty is stdout.
type TxExportOptions struct {
	IO
	Out string
}

func (c *CLI) runStock(ctx context.Context, sub string, args []string, streams IO) int {
	dir, err := inventory.ParseDirection(sub)
	if err != nil {
		return c.fail(streams, usageError("stock: expected in or out"))
	}
	fs := flag.NewFlagSet("stock "+sub, flag.ContinueOnError)
	opts := StockOptions{IO: streams, Direction: dir}
	fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
	positional, err := parse(fs, args, streams.Stderr)
	if err != nil {
		return c.flagResult(streams, err)
	}
	if err := requireArgs(positional, 2, "stock "+sub+" <id|code> <amount>"); err != nil {
		return c.fail(streams, err)
	}
	opts.Ref, opts.Amount = positional[0], positional[1]
	return c.StockCommand(ctx, opts)
}

// StockCommand records a purchase (IN) or a sale (OUT).
func (c *CLI) StockCommand(ctx context.Context, opts StockOptions) int {
	opts.defaults()
	amount, err := inventory.ParseAmount(opts.Amount)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	res, err := c.store.ApplyStockOperation(ctx, opts.Ref, opts.Direction, amount)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	if opts.JSONOutput {
		return c.emitJSON(opts.IO, res.Transaction)
	}
	currency := c.store.Settings().Currency
	tx := res.Transaction
	verb := "bought"
	if tx.Type == inventory.DirectionOut {
		verb = "sold"
	}
	fmt.Fprintf(opts.Stdout, "%s %d x %s for %s", verb, tx.Amount, tx.ProductName, c.money.Format(tx.Total, currency))
	if tx.Type == inventory.DirectionOut {
		fmt.Fprintf(opts.Stdout, " (profit %s)", c.money.Format(tx.Profit, currency))
	}
	fmt.Fprintf(opts.Stdout, ", stock now %d\n", res.Product.Stock)
	if c.store.Settings().IsLowStock(res.Product.Stock) {
		fmt.Fprintf(opts.Stderr, "warning: %s is low on stock\n", res.Product.Name)
	}
	return ExitOK
}

func (c *CLI) runTotals(args []string, streams IO) int {
	fs := flag.NewFlagSet("totals", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "print JSON")
	if _, err := parse(fs, args, streams.Stderr); err != nil {
		return c.flagResult(streams, err)
	}
	return c.TotalsCommand(streams, *jsonOut)
}

// TotalsCommand prints the dashboard figures.
func (c *CLI) TotalsCommand(streams IO, jsonOutput bool) int {
	streams.defaults()
	totals := c.store.Totals()
	if jsonOutput {
		return c.emitJSON(streams, totals)
	}
	currency := c.store.Settings().Currency
	w := tabwriter.NewWriter(streams.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Inventory value\t%s\n", c.money.Format(totals.InventoryValue, currency))
	fmt.Fprintf(w, "Cash balance\t%s\n", c.money.Format(totals.CashBalance, currency))
	fmt.Fprintf(w, "Total profit\t%s\n", c.money.Format(totals.TotalProfit, currency))
	_ = w.Flush()
	return ExitOK
}

func (c *CLI) runTx(ctx context.Context, sub string, args []string, streams IO) int {
	fs := flag.NewFlagSet("tx "+sub, flag.ContinueOnError)
	switch sub {
	case "list":
		opts := TxListOptions{IO: streams}
		fs.IntVar(&opts.Limit, "limit", 10, "number of transactions, 0 for all")
		fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
		if _, err := parse(fs, args, streams.Stderr); err != nil {
			return c.flagResult(streams, err)
		}
		return c.TxListCommand(opts)
	case "clear":
		confirm := fs.Bool("yes", false, "confirm")
		if _, err := parse(fs, args, streams.Stderr); err != nil {
			return c.flagResult(streams, err)
		}
		return c.TxClearCommand(ctx, streams, *confirm)
	case "export":
		opts := TxExportOptions{IO: streams}
		fs.StringVar(&opts.Out, "out", "-", "CSV file, - for stdout")
		if _, err := parse(fs, args, streams.Stderr); err != nil {
			return c.flagResult(streams, err)
		}
		return c.TxExportCommand(opts)
	}
	return c.fail(streams, usageError("tx: expected list, clear or export"))
}

// TxListCommand prints recent transactions, newest first.
func (c *CLI) TxListCommand(opts TxListOptions) int {
	opts.defaults()
	txs := c.store.Transactions(opts.Limit)
	if opts.JSONOutput {
		return c.emitJSON(opts.IO, txs)
	}
	if len(txs) == 0 {
		fmt.Fprintln(opts.Stdout, "no transactions")
		return ExitOK
	}
	currency := c.store.Settings().Currency
	w := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tPRODUCT\tAMOUNT\tPRICE\tTOTAL\tPROFIT")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			tx.Date.Local().Format("2006-01-02 15:04"), tx.Type, tx.ProductName, tx.Amount,
			c.money.Format(tx.Price, currency),
			c.money.Format(tx.Total, currency),
			c.money.Format(tx.Profit, currency))
	}
	_ = w.Flush()
	return ExitOK
}

// TxClearCommand empties the transaction log.
func (c *CLI) TxClearCommand(ctx context.Context, streams IO, confirm bool) int {
	streams.defaults()
	if !confirm {
		return c.fail(streams, errNotConfirmed)
	}
	n, err := c.store.ClearTransactions(ctx)
	if err != nil {
		return c.fail(streams, err)
	}
	fmt.Fprintf(streams.Stdout, "cleared %d transactions\n", n)
	return ExitOK
}

// TxExportCommand writes the whole transaction log as CSV.
func (c *CLI) TxExportCommand(opts TxExportOptions) int {
	opts.defaults()
	txs := c.store.Transactions(0)
	if opts.Out == "" || opts.Out == "-" {
		if err := export.WriteTransactionsCSV(opts.Stdout, txs); err != nil {
			return c.fail(opts.IO, err)
		}
		return ExitOK
	}
	err := writeFile(opts.Out, func(w io.Writer) error { return export.WriteTransactionsCSV(w, txs) })
	if err != nil {
		return c.fail(opts.IO, err)
	}
	fmt.Fprintf(opts.Stdout, "wrote %d transactions to %s\n", len(txs), opts.Out)
	return ExitOK
}
