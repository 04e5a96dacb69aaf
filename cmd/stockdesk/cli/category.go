package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
)

func (c *CLI) runCategory(ctx context.Context, sub string, args []string, streams IO) int {
	fs := flag.NewFlagSet("category "+sub, flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "print JSON")
	positional, err := parse(fs, args, streams.Stderr)
	if err != nil {
		return c.flagResult(streams, err)
	}
	switch sub {
	case "add", "delete":
		if len(positional) == 0 {
			return c.fail(streams, usageError("expected category %s <name>", sub))
		}
		// Names may contain spaces and arrive unquoted.
		name := strings.Join(positional, " ")
		if sub == "add" {
			return c.CategoryAddCommand(ctx, streams, name)
		}
		return c.CategoryDeleteCommand(ctx, streams, name)
	case "list":
		return c.CategoryListCommand(streams, *jsonOut)
	case "orphans":
		return c.CategoryOrphansCommand(streams, *jsonOut)
	}
	return c.fail(streams, usageError("category: expected add, delete, list or orphans"))
}

// CategoryAddCommand adds a category to the set.
func (c *CLI) CategoryAddCommand(ctx context.Context, streams IO, name string) int {
	streams.defaults()
	added, err := c.store.AddCategory(ctx, name)
	if err != nil {
		return c.fail(streams, err)
	}
	if !added {
		fmt.Fprintf(streams.Stdout, "category %q already exists\n", strings.TrimSpace(name))
		return ExitOK
	}
	fmt.Fprintf(streams.Stdout, "added category %q\n", strings.TrimSpace(name))
	return ExitOK
}

// CategoryDeleteCommand removes a category. Products keep the name and are
// reported so the user can recategorise them.
func (c *CLI) CategoryDeleteCommand(ctx context.Context, streams IO, name string) int {
	streams.defaults()
	if err := c.store.DeleteCategory(ctx, name); err != nil {
		return c.fail(streams, err)
	}
	fmt.Fprintf(streams.Stdout, "deleted category %q\n", strings.TrimSpace(name))
	if orphans := c.store.OrphanedProducts(); len(orphans) > 0 {
		fmt.Fprintf(streams.Stderr, "warning: %d product(s) use a category that no longer exists, see 'category orphans'\n", len(orphans))
	}
	return ExitOK
}

// CategoryListCommand prints the categories in insertion order.
func (c *CLI) CategoryListCommand(streams IO, jsonOutput bool) int {
	streams.defaults()
	set := c.store.Categories()
	if jsonOutput {
		return c.emitJSON(streams, set)
	}
	for _, name := range set {
		fmt.Fprintln(streams.Stdout, name)
	}
	return ExitOK
}

// CategoryOrphansCommand lists products whose category was deleted.
func (c *CLI) CategoryOrphansCommand(streams IO, jsonOutput bool) int {
	streams.defaults()
	orphans := c.store.OrphanedProducts()
	if jsonOutput {
		return c.emitJSON(streams, orphans)
	}
	if len(orphans) == 0 {
		fmt.Fprintln(streams.Stdout, "no orphaned products")
		return ExitOK
	}
	w := tabwriter.NewWriter(streams.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tCATEGORY")
	for _, p := range orphans {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Code, p.Name, p.Category)
	}
	_ = w.Flush()
	return ExitOK
}

// SettingsSetOptions carries the settings flags the user passed.
type SettingsSetOptions struct {
	IO
	Currency  string
	Threshold int
	Set       map[string]bool
}

func (c *CLI) runSettings(ctx context.Context, sub string, args []string, streams IO) int {
	fs := flag.NewFlagSet("settings "+sub, flag.ContinueOnError)
	opts := SettingsSetOptions{IO: streams, Set: map[string]bool{}}
	jsonOut := fs.Bool("json", false, "print JSON")
	fs.StringVar(&opts.Currency, "currency", "", "ISO 4217 currency code, e.g. TRY, USD, EUR, GBP")
	fs.IntVar(&opts.Threshold, "threshold", 0, "low stock threshold, at least 1")
	if _, err := parse(fs, args, streams.Stderr); err != nil {
		return c.flagResult(streams, err)
	}
	fs.Visit(func(f *flag.Flag) { opts.Set[f.Name] = true })
	switch sub {
	case "show", "":
		return c.SettingsShowCommand(streams, *jsonOut)
	case "set":
		return c.SettingsSetCommand(ctx, opts)
	}
	return c.fail(streams, usageError("settings: expected show or set"))
}

// SettingsShowCommand prints the settings.
func (c *CLI) SettingsShowCommand(streams IO, jsonOutput bool) int {
	streams.defaults()
	cfg := c.store.Settings()
	if jsonOutput {
		return c.emitJSON(streams, cfg)
	}
	fmt.Fprintf(streams.Stdout, "currency: %s\nlow stock threshold: %d\n", cfg.Currency, cfg.LowStockThreshold)
	return ExitOK
}

// SettingsSetCommand replaces the settings, keeping values not passed.
func (c *CLI) SettingsSetCommand(ctx context.Context, opts SettingsSetOptions) int {
	opts.defaults()
	if !opts.Set["currency"] && !opts.Set["threshold"] {
		return c.fail(opts.IO, usageError("settings set: pass --currency and/or --threshold"))
	}
	next := c.store.Settings()
	if opts.Set["currency"] {
		next.Currency = opts.Currency
	}
	if opts.Set["threshold"] {
		next.LowStockThreshold = opts.Threshold
	}
	saved, err := c.store.UpdateSettings(ctx, next)
	if err != nil {
		return c.fail(opts.IO, err)
	}
	fmt.Fprintf(opts.Stdout, "saved: currency %s, low stock threshold %d\n", saved.Currency, saved.LowStockThreshold)
	return ExitOK
}
