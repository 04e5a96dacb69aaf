package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
)

// Export writes items in the given format with exactly six columns in fixed
// order: name, category, stock, buy price, sell price, code.
func Export(w io.Writer, format Format, items []products.Product, locale Locale) error {
	switch format {
	case FormatXLSX:
		return exportXLSX(w, items, locale)
	case FormatCSV:
		return exportCSV(w, items, locale)
	}
	return ErrUnsupportedFormat
}

func exportXLSX(w io.Writer, items []products.Product, locale Locale) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("spreadsheet: name sheet: %w", err)
	}
	header := make([]any, 0, columnCount)
	for _, h := range Headers(locale) {
		header = append(header, h)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("spreadsheet: write header: %w", err)
	}
	for i, p := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("spreadsheet: row %d: %w", i+2, err)
		}
		row := []any{p.Name, p.Category, p.Stock, p.BuyPrice.InexactFloat64(), p.SellPrice.InexactFloat64(), p.Code}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("spreadsheet: write row %d: %w", i+2, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("spreadsheet: write workbook: %w", err)
	}
	return nil
}

func exportCSV(w io.Writer, items []products.Product, locale Locale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers(locale)); err != nil {
		return fmt.Errorf("spreadsheet: write header: %w", err)
	}
	for _, p := range items {
		record := []string{p.Name, p.Category, strconv.Itoa(p.Stock), p.BuyPrice.String(), p.SellPrice.String(), p.Code}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("spreadsheet: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
