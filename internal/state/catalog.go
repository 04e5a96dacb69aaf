package state

import (
	"context"
	"log/slog"
	"strings"

	"github.com/odyssey-erp/stockdesk/internal/masterdata/categories"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/settings"
)

const defaultFallback = categories.Fallback

// Products returns the products accepted by filter, newest first.
func (s *Store) Products(filter products.Filter) []products.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.snap.Products)
}

// LowStock returns products under the configured threshold.
func (s *Store) LowStock() []products.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]products.Product, 0)
	for _, p := range s.snap.Products {
		if s.snap.Settings.IsLowStock(p.Stock) {
			out = append(out, p)
		}
	}
	return out
}

// FindProduct looks a product up by id or display code.
func (s *Store) FindProduct(ref string) (products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.snap.productIndex(strings.TrimSpace(ref))
	if idx < 0 {
		return products.Product{}, ErrProductNotFound
	}
	return s.snap.Products[idx], nil
}

// AddProduct creates a product from form with a fresh id, creation time and
// generated code, and puts it at the front of the list.
func (s *Store) AddProduct(ctx context.Context, form products.ProductForm) (products.Product, error) {
	if err := form.Validate(); err != nil {
		return products.Product{}, err
	}
	var created products.Product
	err := s.mutate(ctx, func(next *Snapshot) error {
		if err := resolveCategory(next, form, ""); err != nil {
			return err
		}
		code, err := s.codes.Unique(next.codeTaken)
		if err != nil {
			return err
		}
		created = form.Apply(products.Product{
			ID:        s.newID(),
			Code:      code,
			CreatedAt: s.now().UTC(),
		})
		next.Products = append([]products.Product{created}, next.Products...)
		return nil
	})
	if err != nil {
		return products.Product{}, err
	}
	s.logger.Info("product added", slog.String("product_id", created.ID), slog.String("code", created.Code))
	return created, nil
}

// UpdateProduct replaces every user editable field of the referenced product.
// Id, code and creation time are kept.
func (s *Store) UpdateProduct(ctx context.Context, ref string, form products.ProductForm) (products.Product, error) {
	if err := form.Validate(); err != nil {
		return products.Product{}, err
	}
	var updated products.Product
	err := s.mutate(ctx, func(next *Snapshot) error {
		idx := next.productIndex(strings.TrimSpace(ref))
		if idx < 0 {
			return ErrProductNotFound
		}
		current := next.Products[idx]
		if err := resolveCategory(next, form, current.Category); err != nil {
			return err
		}
		updated = form.Apply(current)
		next.Products[idx] = updated
		return nil
	})
	if err != nil {
		return products.Product{}, err
	}
	s.logger.Info("product updated", slog.String("product_id", updated.ID))
	return updated, nil
}

// DeleteProduct removes the referenced product. Its transactions stay in the log.
func (s *Store) DeleteProduct(ctx context.Context, ref string) (products.Product, error) {
	var removed products.Product
	err := s.mutate(ctx, func(next *Snapshot) error {
		idx := next.productIndex(strings.TrimSpace(ref))
		if idx < 0 {
			return ErrProductNotFound
		}
		removed = next.Products[idx]
		next.Products = append(next.Products[:idx], next.Products[idx+1:]...)
		return nil
	})
	if err != nil {
		return products.Product{}, err
	}
	s.logger.Info("product deleted", slog.String("product_id", removed.ID))
	return removed, nil
}

// resolveCategory enforces set membership. keep is the product's current
// category, which stays acceptable even after it was deleted from the set.
func resolveCategory(next *Snapshot, form products.ProductForm, keep string) error {
	if next.Categories.Contains(form.Category) || (keep != "" && form.Category == keep) {
		return nil
	}
	if !form.QuickAddCategory {
		return ErrUnknownCategory
	}
	set, _, err := next.Categories.Add(form.Category)
	if err != nil {
		return err
	}
	next.Categories = set
	return nil
}

// Categories returns the category set in insertion order.
func (s *Store) Categories() categories.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Categories.Clone()
}

// AddCategory adds name to the set. It reports false when name already exists.
func (s *Store) AddCategory(ctx context.Context, name string) (bool, error) {
	var added bool
	err := s.mutate(ctx, func(next *Snapshot) error {
		set, ok, err := next.Categories.Add(name)
		if err != nil {
			return err
		}
		next.Categories, added = set, ok
		return nil
	})
	return added, err
}

// DeleteCategory removes name from the set. Products using it keep the name;
// see OrphanedProducts.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	return s.mutate(ctx, func(next *Snapshot) error {
		set, ok := next.Categories.Remove(name)
		if !ok {
			return ErrCategoryNotFound
		}
		next.Categories = set
		return nil
	})
}

// OrphanedProducts returns products whose category is no longer in the set.
func (s *Store) OrphanedProducts() []products.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]products.Product, 0)
	for _, p := range s.snap.Products {
		if !s.snap.Categories.Contains(p.Category) {
			out = append(out, p)
		}
	}
	return out
}

// Settings returns the current settings.
func (s *Store) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Settings
}

// UpdateSettings validates and replaces the settings record.
func (s *Store) UpdateSettings(ctx context.Context, in settings.Settings) (settings.Settings, error) {
	if err := in.Validate(); err != nil {
		return settings.Settings{}, err
	}
	err := s.mutate(ctx, func(next *Snapshot) error {
		next.Settings = in
		return nil
	})
	if err != nil {
		return settings.Settings{}, err
	}
	return in, nil
}
