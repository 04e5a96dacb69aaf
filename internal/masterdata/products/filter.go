package products

import "strings"

// AllCategories disables category filtering.
const AllCategories = "All"

// Filter narrows a product listing.
type Filter struct {
	// Search matches name or code, case-insensitively.
	Search string
	// Category restricts to one category; empty or AllCategories means any.
	Category string
	// LowStockBelow keeps products whose stock is under the value when positive.
	LowStockBelow int
}

// Apply returns the products that pass the filter, preserving order.
func (f Filter) Apply(items []Product) []Product {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Product, 0, len(items))
	for _, p := range items {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Code), needle) {
			continue
		}
		if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
			continue
		}
		if f.LowStockBelow > 0 && p.Stock >= f.LowStockBelow {
			continue
		}
		out = append(out, p)
	}
	return out
}
