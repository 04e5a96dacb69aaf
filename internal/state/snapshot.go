package state

import (
	"github.com/odyssey-erp/stockdesk/internal/inventory"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/categories"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/settings"
)

// Snapshot is the complete application state. Products and transactions are
// ordered newest first.
type Snapshot struct {
	Products     []products.Product
	Transactions []inventory.Transaction
	Settings     settings.Settings
	Categories   categories.Set
}

// DefaultSnapshot is the state of a fresh installation.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Products:     []products.Product{},
		Transactions: []inventory.Transaction{},
		Settings:     settings.Defaults(),
		Categories:   categories.Defaults(),
	}
}

// Clone returns a deep copy. Product and transaction values hold no shared
// mutable memory, so copying the slices is enough.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Products:     make([]products.Product, len(s.Products)),
		Transactions: make([]inventory.Transaction, len(s.Transactions)),
		Settings:     s.Settings,
		Categories:   s.Categories.Clone(),
	}
	copy(out.Products, s.Products)
	copy(out.Transactions, s.Transactions)
	if out.Categories == nil {
		out.Categories = categories.Set{}
	}
	return out
}

func (s *Snapshot) productIndex(ref string) int {
	for i, p := range s.Products {
		if p.Matches(ref) {
			return i
		}
	}
	return -1
}

func (s *Snapshot) codeTaken(code string) bool {
	for _, p := range s.Products {
		if p.Code == code {
			return true
		}
	}
	return false
}
