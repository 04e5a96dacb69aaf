// Package money formats amounts for display in the user's locale.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when no or an unparseable locale is configured.
const DefaultLocale = "tr-TR"

// Formatter renders amounts such as ₺1.234,50 for a fixed locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter builds a formatter for a BCP 47 locale like "tr-TR" or "en-US".
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale reports the resolved locale.
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Format renders amount in the currency with ISO code. Unknown codes are
// printed verbatim in front of the number.
func (f *Formatter) Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	symbol := code
	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		symbol = f.printer.Sprint(currency.NarrowSymbol(unit))
		if s, _ := currency.Standard.Rounding(unit); s >= 0 {
			scale = s
		}
	} else if symbol != "" {
		symbol += " "
	}

	sign := ""
	rounded := amount.Round(int32(scale))
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	digits := f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(scale)))
	return sign + symbol + digits
}

// Number renders a plain number with the locale's separators.
func (f *Formatter) Number(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}
