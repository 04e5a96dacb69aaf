// Package cli implements the stockdesk commands. Every command maps to one
// mutation or query on the state store and returns a process exit code.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/odyssey-erp/stockdesk/internal/money"
	"github.com/odyssey-erp/stockdesk/internal/shared"
	"github.com/odyssey-erp/stockdesk/internal/spreadsheet"
	"github.com/odyssey-erp/stockdesk/internal/state"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitUnexpected = 1
	ExitUsage      = 2
	ExitRule       = 3
	ExitFormat     = 4
	ExitNotFound   = 5
)

// errUsage marks malformed command lines.
var errUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// errNotConfirmed is returned by destructive commands run without --yes.
var errNotConfirmed = usageError("destructive command, re-run with --yes to confirm")

// Config carries presentation settings.
type Config struct {
	DisplayLocale    string
	SheetLocale      spreadsheet.Locale
	FallbackCategory string
}

// CLI wires commands to a state store.
type CLI struct {
	store  *state.Store
	cfg    Config
	money  *money.Formatter
	logger *slog.Logger
	now    func() time.Time
}

// New builds the command set.
func New(store *state.Store, cfg Config, logger *slog.Logger) *CLI {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SheetLocale == "" {
		cfg.SheetLocale = spreadsheet.LocaleTR
	}
	return &CLI{
		store:  store,
		cfg:    cfg,
		money:  money.NewFormatter(cfg.DisplayLocale),
		logger: logger,
		now:    time.Now,
	}
}

// IO bundles the streams of one command invocation.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (o *IO) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

const usage = `usage: stockdesk <command> [flags]

commands:
  product add|edit|delete|list|show   manage the catalog
  stock in|out <product> <amount>     record a purchase or a sale
  category add|delete|list|orphans    manage categories
  settings show|set                   currency and low stock threshold
  totals                              inventory value, cash balance, profit
  tx list|clear|export                transaction log
  backup export|import                whole-state JSON backup
  sheet export|import                 product spreadsheet (xlsx, csv)
  report                              income, expense and profit by period
  reset                               delete everything and restore defaults
`

// Run parses args and executes one command.
func (c *CLI) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	streams := IO{Stdout: stdout, Stderr: stderr}
	streams.defaults()
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(streams.Stdout, usage)
		return ExitOK
	}

	cmd, rest := args[0], args[1:]
	var sub string
	subArgs := rest
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		sub, subArgs = rest[0], rest[1:]
	}
	switch cmd {
	case "product":
		return c.runProduct(ctx, sub, subArgs, streams)
	case "stock":
		return c.runStock(ctx, sub, subArgs, streams)
	case "category":
		return c.runCategory(ctx, sub, subArgs, streams)
	case "settings":
		return c.runSettings(ctx, sub, subArgs, streams)
	case "totals":
		return c.runTotals(rest, streams)
	case "tx":
		return c.runTx(ctx, sub, subArgs, streams)
	case "backup":
		return c.runBackup(ctx, sub, subArgs, streams)
	case "sheet":
		return c.runSheet(ctx, sub, subArgs, streams)
	case "report":
		return c.runReport(rest, streams)
	case "reset":
		return c.runReset(ctx, rest, streams)
	}
	return c.fail(streams, usageError("unknown command %q", cmd))
}

// parse parses flags and returns positional arguments. Flags may follow the
// positionals.
func parse(fs *flag.FlagSet, args []string, stderr io.Writer) ([]string, error) {
	fs.SetOutput(stderr)
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, usageError("%v", err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// flagResult converts a parse failure into an exit code.
func (c *CLI) flagResult(streams IO, err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	return c.fail(streams, err)
}

// fail prints a user safe message and maps err to an exit code.
func (c *CLI) fail(streams IO, err error) int {
	code := exitCode(err)
	msg := shared.UserSafeMessage(err)
	switch code {
	case ExitUsage:
		if errors.Is(err, errUsage) {
			msg = strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
		}
	case ExitUnexpected:
		c.logger.Error("command failed", slog.Any("error", err))
	}
	fmt.Fprintf(streams.Stderr, "stockdesk: %s\n", msg)
	return code
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage), errors.Is(err, shared.ErrValidation):
		return ExitUsage
	case errors.Is(err, shared.ErrDomainRule):
		return ExitRule
	case errors.Is(err, shared.ErrFormat):
		return ExitFormat
	case errors.Is(err, shared.ErrNotFound):
		return ExitNotFound
	}
	return ExitUnexpected
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireArgs(positional []string, n int, form string) error {
	if len(positional) != n {
		return usageError("expected %s", form)
	}
	return nil
}
