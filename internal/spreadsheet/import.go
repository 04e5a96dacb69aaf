package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/odyssey-erp/stockdesk/internal/masterdata/categories"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/shared"
)

// ImportOptions tunes Import.
type ImportOptions struct {
	// FallbackCategory replaces an empty category cell. Defaults to categories.Fallback.
	FallbackCategory string
}

// Import reads product drafts from the first sheet of r. The first row is the
// header; columns are matched by name in either locale and may appear in any
// order. Rows without a name are skipped. Missing or unparseable numbers read
// as zero and negative ones are clamped to zero. A missing code is left empty.
func Import(r io.Reader, format Format, opts ImportOptions) ([]products.Draft, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows, opts)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnreadable, err)
	}
	defer func() {
		_ = f.Close()
	}()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingHeader
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnreadable, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnreadable, err)
	}
	return rows, nil
}

var errUnreadable = shared.NewError(shared.ErrFormat, "spreadsheet: file could not be read")

func parseRows(rows [][]string, opts ImportOptions) ([]products.Draft, error) {
	fallback := opts.FallbackCategory
	if fallback == "" {
		fallback = categories.Fallback
	}
	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}

	index := make(map[column]int, columnCount)
	for i, cell := range rows[0] {
		if col, ok := lookupColumn(cell); ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}
	if _, ok := index[colName]; !ok {
		return nil, ErrMissingHeader
	}

	cellOf := func(row []string, col column) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	drafts := make([]products.Draft, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cellOf(row, colName)
		if name == "" {
			continue
		}
		category := cellOf(row, colCategory)
		if category == "" {
			category = fallback
		}
		drafts = append(drafts, products.Draft{
			Name:      name,
			Category:  category,
			Stock:     parseStock(cellOf(row, colStock)),
			BuyPrice:  parseAmount(cellOf(row, colBuyPrice)),
			SellPrice: parseAmount(cellOf(row, colSellPrice)),
			Code:      cellOf(row, colCode),
		})
	}
	return drafts, nil
}

// parseStock reads the whole units of a stock cell. Values above
// products.MaxStock count as unreadable and become 0.
func parseStock(s string) int {
	d := parseAmount(s).Truncate(0)
	if d.GreaterThan(decimal.NewFromInt(products.MaxStock)) {
		return 0
	}
	return int(d.IntPart())
}

// parseAmount reads a non-negative number. A lone decimal comma is accepted.
func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
