// Package backup reads and writes the whole-state JSON document users keep as
// a backup file.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/stockdesk/internal/inventory"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/categories"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/settings"
	"github.com/odyssey-erp/stockdesk/internal/shared"
)

func init() {
	// Prices are JSON numbers in backup files and stored documents alike.
	decimal.MarshalJSONWithoutQuotes = true
}

// Version is written into every exported document.
const Version = "1.0"

// ErrInvalidFormat rejects documents without the products and transactions arrays.
var ErrInvalidFormat = shared.NewError(shared.ErrFormat, "backup: invalid backup file")

// Document is the backup file layout. A nil Settings or Categories means the
// field was absent and the current value must be kept on import.
type Document struct {
	Products     []products.Product      `json:"products"`
	Transactions []inventory.Transaction `json:"transactions"`
	Settings     *settings.Settings      `json:"settings,omitempty"`
	Categories   categories.Set          `json:"categories"`
	ExportDate   time.Time               `json:"exportDate"`
	Version      string                  `json:"version"`
}

// wireDocument distinguishes a missing or null array from an empty one.
type wireDocument struct {
	Products     *[]products.Product      `json:"products"`
	Transactions *[]inventory.Transaction `json:"transactions"`
	Settings     *wireSettings            `json:"settings"`
	Categories   *[]string                `json:"categories"`
	ExportDate   *time.Time               `json:"exportDate"`
	Version      string                   `json:"version"`
}

// wireSettings tolerates a blank currency or a null threshold, both written by
// older exports when a settings field was left empty.
type wireSettings struct {
	Currency          string `json:"currency"`
	LowStockThreshold *int   `json:"lowStockThreshold"`
}

func (w wireSettings) settings() settings.Settings {
	s := settings.Defaults()
	if strings.TrimSpace(w.Currency) != "" {
		s.Currency = w.Currency
	}
	if w.LowStockThreshold != nil {
		s.LowStockThreshold = *w.LowStockThreshold
	}
	return s
}

// Encode writes doc as two-space indented JSON.
func Encode(w io.Writer, doc Document) error {
	if doc.Products == nil {
		doc.Products = []products.Product{}
	}
	if doc.Transactions == nil {
		doc.Transactions = []inventory.Transaction{}
	}
	if doc.Version == "" {
		doc.Version = Version
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("backup: encode: %w", err)
	}
	return nil
}

// Decode parses a backup file. Unparseable input, and input without both the
// products and transactions arrays, fails with ErrInvalidFormat. Present
// settings are validated after blank fields fall back to the defaults;
// present categories are normalised.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("backup: read: %w", err)
	}
	var wire wireDocument
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if wire.Products == nil || wire.Transactions == nil {
		return Document{}, ErrInvalidFormat
	}

	doc := Document{
		Products:     *wire.Products,
		Transactions: *wire.Transactions,
		Version:      wire.Version,
	}
	if doc.Products == nil {
		doc.Products = []products.Product{}
	}
	if doc.Transactions == nil {
		doc.Transactions = []inventory.Transaction{}
	}
	if wire.ExportDate != nil {
		doc.ExportDate = *wire.ExportDate
	}
	if wire.Settings != nil {
		s := wire.Settings.settings()
		if err := s.Validate(); err != nil {
			return Document{}, fmt.Errorf("%w: settings: %v", ErrInvalidFormat, err)
		}
		doc.Settings = &s
	}
	if wire.Categories != nil {
		doc.Categories = categories.Normalize(*wire.Categories)
	}
	return doc, nil
}

// Filename is the suggested file name for a backup taken at now.
func Filename(now time.Time) string {
	return "stok-takip-yedek-" + now.Format("02-01-2006") + ".json"
}
