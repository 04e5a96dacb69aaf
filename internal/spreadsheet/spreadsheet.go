// Package spreadsheet exports the product list as a six column sheet and reads
// products back from sheets in the same layout.
package spreadsheet

import (
	"path/filepath"
	"strings"

	"github.com/odyssey-erp/stockdesk/internal/shared"
)

// Format is a tabular file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Locale selects the header row language on export.
type Locale string

const (
	LocaleTR Locale = "tr"
	LocaleEN Locale = "en"
)

const (
	// SheetName names the single worksheet of an exported workbook.
	SheetName = "Stok Listesi"
	// DefaultFilename is the suggested export file name.
	DefaultFilename = "stok-listesi.xlsx"
)

// column identifies one of the six fixed columns.
type column int

const (
	colName column = iota
	colCategory
	colStock
	colBuyPrice
	colSellPrice
	colCode
	columnCount
)

var headers = map[Locale][columnCount]string{
	LocaleTR: {"Ürün Adı", "Kategori", "Stok", "Alış Fiyatı", "Satış Fiyatı", "Kod"},
	LocaleEN: {"Product Name", "Category", "Stock", "Buy Price", "Sell Price", "Code"},
}

var (
	// ErrUnsupportedFormat rejects file formats other than xlsx and csv.
	ErrUnsupportedFormat = shared.NewError(shared.ErrValidation, "spreadsheet: unsupported format, use xlsx or csv")
	// ErrMissingHeader is returned when no product name column is found.
	ErrMissingHeader = shared.NewError(shared.ErrFormat, "spreadsheet: header row with a product name column not found")
)

// Headers returns the export header row for locale, defaulting to Turkish.
func Headers(locale Locale) []string {
	h, ok := headers[locale]
	if !ok {
		h = headers[LocaleTR]
	}
	return h[:]
}

// ParseFormat accepts "xlsx" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", ErrUnsupportedFormat
}

// FormatFromFilename infers the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
}

// lookupColumn maps a header cell in either locale to its column.
func lookupColumn(header string) (column, bool) {
	header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	for _, set := range headers {
		for i, h := range set {
			if strings.EqualFold(h, header) {
				return column(i), true
			}
		}
	}
	return 0, false
}
