package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/odyssey-erp/stockdesk/internal/backup"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/shared"
	"github.com/odyssey-erp/stockdesk/internal/spreadsheet"
)

// BackupOptions names the backup file. An empty Path on export uses the dated
// default name; "-" is stdout or stdin.
type BackupOptions struct {
	IO
	Path    string
	Confirm bool
	Stdin   io.Reader
}

// SheetOptions names the spreadsheet file and format.
type SheetOptions struct {
	IO
	Path   string
	Format string
	Locale string
}

func (c *CLI) runBackup(ctx context.Context, sub string, args []string, streams IO) int {
	flags := flag.NewFlagSet("backup "+sub, flag.ContinueOnError)
	opts := BackupOptions{IO: streams, Stdin: os.Stdin}
	flags.StringVar(&opts.Path, "out", "", "backup file, - for stdout")
	flags.BoolVar(&opts.Confirm, "yes", false, "confirm replacing all data")
	positional, err := parse(flags, args, streams.Stderr)
	if err != nil {
		return c.flagResult(streams, err)
	}
	switch sub {
	case "export":
		if err := requireArgs(positional, 0, "backup export [--out FILE]"); err != nil {
			return c.fail(streams, err)
		}
		return c.BackupExportCommand(opts)
	case "import":
		if err := requireArgs(positional, 1, "backup import <file> --yes"); err != nil {
			return c.fail(streams, err)
		}
		opts.Path = positional[0]
		return c.BackupImportCommand(ctx, opts)
	}
	return c.fail(streams, usageError("backup: expected export or import"))
}

// BackupExportCommand writes the whole state as a JSON backup.
func (c *CLI) BackupExportCommand(opts BackupOptions) int {
	opts.defaults()
	now := c.now()
	doc := c.store.Export(now)
	if opts.Path == "-" {
		if err := backup.Encode(opts.Stdout, doc); err != nil {
			return c.fail(opts.IO, err)
		}
		return ExitOK
	}
	path := opts.Path
	if path == "" {
		path = backup.Filename(now)
	}
	if err := writeFile(path, func(w io.Writer) error { return backup.Encode(w, doc) }); err != nil {
		return c.fail(opts.IO, err)
	}
	fmt.Fprintf(opts.Stdout, "backup written to %s (%d products, %d transactions)\n", path, len(doc.Products), len(doc.Transactions))
	return ExitOK
}

// BackupImportCommand replaces the state with a backup file.
func (c *CLI) BackupImportCommand(ctx context.Context, opts BackupOptions) int {
	opts.defaults()
	if !opts.Confirm {
		return c.fail(opts.IO, errNotConfirmed)
	}
	var doc backup.Document
	err := readFile(opts.Path, opts.Stdin, func(r io.Reader) error {
		var err error
		doc, err = backup.Decode(r)
		return err
	})
	if err != nil {
		return c.fail(opts.IO, err)
	}
	if err := c.store.Restore(ctx, doc); err != nil {
		return c.fail(opts.IO, err)
	}
	fmt.Fprintf(opts.Stdout, "restored %d products and %d transactions\n", len(doc.Products), len(doc.Transactions))
	return ExitOK
}

func (c *CLI) runSheet(ctx context.Context, sub string, args []string, streams IO) int {
	flags := flag.NewFlagSet("sheet "+sub, flag.ContinueOnError)
	opts := SheetOptions{IO: streams}
	flags.StringVar(&opts.Path, "out", spreadsheet.DefaultFilename, "output file")
	flags.StringVar(&opts.Format, "format", "", "xlsx or csv, default from the file extension")
	flags.StringVar(&opts.Locale, "locale", string(c.cfg.SheetLocale), "header language, tr or en")
	positional, err := parse(flags, args, streams.Stderr)
	if err != nil {
		return c.flagResult(streams, err)
	}
	switch sub {
	case "export":
		if err := requireArgs(positional, 0, "sheet export [--out FILE]"); err != nil {
			return c.fail(streams, err)
		}
		return c.SheetExportCommand(opts)
	case "import":
		if err := requireArgs(positional, 1, "sheet import <file>"); err != nil {
			return c.fail(streams, err)
		}
		opts.Path = positional[0]
		return c.SheetImportCommand(ctx, opts)
	}
	return c.fail(streams, usageError("sheet: expected export or import"))
}

func (o SheetOptions) format() (spreadsheet.Format, error) {
	if o.Format != "" {
		return spreadsheet.ParseFormat(o.Format)
	}
	return spreadsheet.FormatFromFilename(o.Path)
}

// SheetExportCommand writes the product list as a spreadsheet.
func (c *CLI) SheetExportCommand(opts SheetOptions) int {
	opts.defaults()
	format, err := opts.format()
	if err != nil {
		return c.fail(opts.IO, err)
	}
	items := c.store.Products(products.Filter{})
	locale := spreadsheet.Locale(opts.Locale)
	err = writeFile(opts.Path, func(w io.Writer) error {
		return spreadsheet.Export(w, format, items, locale)
	})
	if err != nil {
		return c.fail(opts.IO, err)
	}
	fmt.Fprintf(opts.Stdout, "exported %d products to %s\n", len(items), opts.Path)
	return ExitOK
}

// SheetImportCommand appends the products of a spreadsheet to the catalog.
func (c *CLI) SheetImportCommand(ctx context.Context, opts SheetOptions) int {
	opts.defaults()
	format, err := opts.format()
	if err != nil {
		return c.fail(opts.IO, err)
	}
	var drafts []products.Draft
	err = readFile(opts.Path, nil, func(r io.Reader) error {
		var err error
		drafts, err = spreadsheet.Import(r, format, spreadsheet.ImportOptions{FallbackCategory: c.cfg.FallbackCategory})
		return err
	})
	if err != nil {
		return c.fail(opts.IO, err)
	}
	n, err := c.store.ImportDrafts(ctx, drafts, string(format))
	if err != nil {
		return c.fail(opts.IO, err)
	}
	fmt.Fprintf(opts.Stdout, "imported %d products\n", n)
	return ExitOK
}

func (c *CLI) runReset(ctx context.Context, args []string, streams IO) int {
	flags := flag.NewFlagSet("reset", flag.ContinueOnError)
	confirm := flags.Bool("yes", false, "confirm deleting all data")
	if _, err := parse(flags, args, streams.Stderr); err != nil {
		return c.flagResult(streams, err)
	}
	return c.ResetCommand(ctx, streams, *confirm)
}

// ResetCommand deletes every product and transaction and restores defaults.
func (c *CLI) ResetCommand(ctx context.Context, streams IO, confirm bool) int {
	streams.defaults()
	if !confirm {
		return c.fail(streams, errNotConfirmed)
	}
	if err := c.store.Reset(ctx); err != nil {
		return c.fail(streams, err)
	}
	fmt.Fprintln(streams.Stdout, "all data cleared")
	return ExitOK
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// readFile opens path, or stdin when path is "-" and stdin is set.
func readFile(path string, stdin io.Reader, read func(io.Reader) error) error {
	if path == "-" && stdin != nil {
		return read(stdin)
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return shared.NewError(shared.ErrNotFound, fmt.Sprintf("file %s not found", path))
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return read(f)
}
