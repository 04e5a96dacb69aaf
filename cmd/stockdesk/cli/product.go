package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/shared"
)

// ProductListOptions filters the product listing.
type ProductListOptions struct {
	IO
	Search     string
	Category   string
	LowOnly    bool
	JSONOutput bool
}

// ProductFormOptions carries the add and edit flags. Set lists the flags the
// user passed so edits only override those.
type ProductFormOptions struct {
	IO
	Ref         string
	Name        string
	Category    string
	Stock       int
	BuyPrice    string
	SellPrice   string
	NewCategory bool
	Set         map[string]bool
	JSONOutput  bool
}

// ProductRefOptions addresses one product.
type ProductRefOptions struct {
	IO
	Ref        string
	Confirm    bool
	JSONOutput bool
}

func (c *CLI) runProduct(ctx context.Context, sub string, args []string, streams IO) int {
	switch sub {
	case "add", "edit":
		fs := flag.NewFlagSet("product "+sub, flag.ContinueOnError)
		opts := ProductFormOptions{IO: streams, Set: map[string]bool{}}
		fs.StringVar(&opts.Name, "name", "", "product name")
		fs.StringVar(&opts.Category, "category", "", "category name")
		fs.IntVar(&opts.Stock, "stock", 0, "units in stock")
		fs.StringVar(&opts.BuyPrice, "buy", "0", "unit buy price")
		fs.StringVar(&opts.SellPrice, "sell", "0", "unit sell price")
		fs.BoolVar(&opts.NewCategory, "new-category", false, "create the category when it does not exist")
		fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
		positional, err := parse(fs, args, streams.Stderr)
		if err != nil {
			return c.flagResult(streams, err)
		}
		fs.Visit(func(f *flag.Flag) { opts.Set[f.Name] = true })
		if sub == "add" {
			if err := requireArgs(positional, 0, "product add --name NAME --category CATEGORY [flags]"); err != nil {
				return c.fail(streams, err)
			}
			return c.ProductAddCommand(ctx, opts)
		}
		if err := requireArgs(positional, 1, "product edit <id|code> [flags]"); err != nil {
			return c.fail(streams, err)
		}
		opts.Ref = positional[0]
		return c.ProductEditCommand(ctx, opts)
	case "delete", "show":
		fs := flag.NewFlagSet("product "+sub, flag.ContinueOnError)
		opts := ProductRefOptions{IO: streams}
		fs.BoolVar(&opts.Confirm, "yes", false, "confirm deletion")
		fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
		positional, err := parse(fs, args, streams.Stderr)
		if err != nil {
			return c.flagResult(streams, err)
		}
		if err := requireArgs(positional, 1, "product "+sub+" <id|code>"); err != nil {
			return c.fail(streams, err)
		}
		opts.Ref = positional[0]
		if sub == "delete" {
			return c.ProductDeleteCommand(ctx, opts)
		}
		return c.ProductShowCommand(opts)
	case "list":
		fs := flag.NewFlagSet("product list", flag.ContinueOnError)
		opts := ProductListOptions{IO: streams}
		fs.StringVar(&opts.Search, "search", "", "match name or code")
		fs.StringVar(&opts.Category, "category", products.AllCategories, "only this category")
		fs.BoolVar(&opts.LowOnly, "low", false, "only products under the low stock threshold")
		fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
		if _, err := parse(fs, args, streams.Stderr); err != nil {
			return c.flagResult(streams, err)
		}
		return c.ProductListCommand(opts)
	}
	return c.fail(streams, usageError("product: expected add, edit, delete, list or show"))
}

// ProductAddCommand creates a product.
func (c *CLI) ProductAddCommand(ctx context.Context, opts ProductFormOptions) int {
	opts.defaults()
	form, err := opts.apply(products.ProductForm{})
	if err != nil {
		return c.fail(opts.IO, err)
	}
	p, err := c.store.AddProduct(ctx, form)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	if opts.JSONOutput {
		return c.emitJSON(opts.IO, p)
	}
	fmt.Fprintf(opts.Stdout, "added %s %s\n", p.Code, p.Name)
	return ExitOK
}

// ProductEditCommand resubmits the product with the given flags changed.
func (c *CLI) ProductEditCommand(ctx context.Context, opts ProductFormOptions) int {
	opts.defaults()
	current, err := c.store.FindProduct(opts.Ref)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	form, err := opts.apply(products.ProductForm{
		Name:      current.Name,
		Category:  current.Category,
		Stock:     current.Stock,
		BuyPrice:  current.BuyPrice,
		SellPrice: current.SellPrice,
	})
	if err != nil {
		return c.fail(opts.IO, err)
	}
	p, err := c.store.UpdateProduct(ctx, current.ID, form)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	if opts.JSONOutput {
		return c.emitJSON(opts.IO, p)
	}
	fmt.Fprintf(opts.Stdout, "updated %s %s\n", p.Code, p.Name)
	return ExitOK
}

// apply overlays the flags the user set on form.
func (o ProductFormOptions) apply(form products.ProductForm) (products.ProductForm, error) {
	fields := shared.FieldErrors{}
	set := func(name string) bool { return o.Set == nil || o.Set[name] }
	if set("name") {
		form.Name = o.Name
	}
	if set("category") {
		form.Category = o.Category
	}
	if set("stock") {
		form.Stock = o.Stock
	}
	if set("buy") {
		d, err := parsePrice(o.BuyPrice)
		if err != nil {
			fields["buyPrice"] = "must be a number"
		}
		form.BuyPrice = d
	}
	if set("sell") {
		d, err := parsePrice(o.SellPrice)
		if err != nil {
			fields["sellPrice"] = "must be a number"
		}
		form.SellPrice = d
	}
	if len(fields) > 0 {
		return products.ProductForm{}, fields
	}
	form.QuickAddCategory = o.NewCategory
	return form, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// ProductDeleteCommand removes a product after confirmation.
func (c *CLI) ProductDeleteCommand(ctx context.Context, opts ProductRefOptions) int {
	opts.defaults()
	if !opts.Confirm {
		return c.fail(opts.IO, errNotConfirmed)
	}
	p, err := c.store.DeleteProduct(ctx, opts.Ref)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	fmt.Fprintf(opts.Stdout, "deleted %s %s\n", p.Code, p.Name)
	return ExitOK
}

// ProductShowCommand prints one product.
func (c *CLI) ProductShowCommand(opts ProductRefOptions) int {
	opts.defaults()
	p, err := c.store.FindProduct(opts.Ref)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	if opts.JSONOutput {
		return c.emitJSON(opts.IO, p)
	}
	cfg := c.store.Settings()
	w := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", p.ID)
	fmt.Fprintf(w, "Code\t%s\n", p.Code)
	fmt.Fprintf(w, "Name\t%s\n", p.Name)
	fmt.Fprintf(w, "Category\t%s\n", p.Category)
	fmt.Fprintf(w, "Stock\t%d%s\n", p.Stock, lowMarker(cfg.IsLowStock(p.Stock)))
	fmt.Fprintf(w, "Buy price\t%s\n", c.money.Format(p.BuyPrice, cfg.Currency))
	fmt.Fprintf(w, "Sell price\t%s\n", c.money.Format(p.SellPrice, cfg.Currency))
	fmt.Fprintf(w, "Unit margin\t%s\n", c.money.Format(p.UnitMargin(), cfg.Currency))
	fmt.Fprintf(w, "Created\t%s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
	_ = w.Flush()
	return ExitOK
}

// ProductListCommand prints the catalog, newest first.
func (c *CLI) ProductListCommand(opts ProductListOptions) int {
	opts.defaults()
	cfg := c.store.Settings()
	filter := products.Filter{Search: opts.Search, Category: opts.Category}
	if opts.LowOnly {
		filter.LowStockBelow = cfg.LowStockThreshold
	}
	items := c.store.Products(filter)
	if opts.JSONOutput {
		return c.emitJSON(opts.IO, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(opts.Stdout, "no products")
		return ExitOK
	}
	w := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tCATEGORY\tSTOCK\tBUY\tSELL\tMARGIN")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%s\t%s\t%s\t%s\n",
			p.Code, p.Name, p.Category, p.Stock, lowMarker(cfg.IsLowStock(p.Stock)),
			c.money.Format(p.BuyPrice, cfg.Currency),
			c.money.Format(p.SellPrice, cfg.Currency),
			c.money.Format(p.UnitMargin(), cfg.Currency))
	}
	_ = w.Flush()
	return ExitOK
}

func lowMarker(low bool) string {
	if low {
		return " (low)"
	}
	return ""
}

func (c *CLI) emitJSON(streams IO, v any) int {
	if err := writeJSON(streams.Stdout, v); err != nil {
		return c.fail(streams, err)
	}
	return ExitOK
}
