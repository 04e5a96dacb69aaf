package products

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductForm carries a complete product record as submitted by the user.
// Edits resubmit every field; partial updates are not expressible.
type ProductForm struct {
	Name      string          `json:"name" validate:"required"`
	Category  string          `json:"category" validate:"required"`
	Stock     int             `json:"stock" validate:"gte=0,lte=1000000000"`
	BuyPrice  decimal.Decimal `json:"buyPrice" validate:"gte=0"`
	SellPrice decimal.Decimal `json:"sellPrice" validate:"gte=0"`

	// QuickAddCategory adds Category to the category set when it is missing.
	QuickAddCategory bool `json:"-"`
}

// Apply copies the form fields onto p, leaving identity fields alone.
func (f ProductForm) Apply(p Product) Product {
	p.Name = f.Name
	p.Category = f.Category
	p.Stock = f.Stock
	p.BuyPrice = f.BuyPrice
	p.SellPrice = f.SellPrice
	return p
}

// Draft is a product read from a bulk source before identity is assigned.
// An empty Code asks the catalog to generate one.
type Draft struct {
	Name      string
	Category  string
	Stock     int
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	Code      string
}

func (f *ProductForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
}
