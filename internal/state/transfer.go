package state

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/odyssey-erp/stockdesk/internal/backup"
	"github.com/odyssey-erp/stockdesk/internal/inventory"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/categories"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
)

// Export captures the whole state as a backup document.
func (s *Store) Export(now time.Time) backup.Document {
	snap := s.Snapshot()
	cfg := snap.Settings
	return backup.Document{
		Products:     snap.Products,
		Transactions: snap.Transactions,
		Settings:     &cfg,
		Categories:   snap.Categories,
		ExportDate:   now.UTC(),
		Version:      backup.Version,
	}
}

// Restore replaces products and transactions with those of doc, and settings
// and categories when doc carries them. Either all of it applies or nothing.
func (s *Store) Restore(ctx context.Context, doc backup.Document) error {
	if doc.Products == nil || doc.Transactions == nil {
		return backup.ErrInvalidFormat
	}
	err := s.mutate(ctx, func(next *Snapshot) error {
		next.Products = append([]products.Product{}, doc.Products...)
		next.Transactions = append([]inventory.Transaction{}, doc.Transactions...)
		if doc.Settings != nil {
			next.Settings = *doc.Settings
		}
		if doc.Categories != nil {
			next.Categories = categories.Normalize(doc.Categories)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.AddImportedProducts("backup", len(doc.Products))
	s.logger.Info("backup restored",
		slog.Int("products", len(doc.Products)),
		slog.Int("transactions", len(doc.Transactions)))
	return nil
}

// ImportDrafts appends drafts to the end of the product list and returns how
// many were created. Blank names are skipped, a missing category becomes the
// fallback category, unknown categories join the set and missing codes are
// generated.
func (s *Store) ImportDrafts(ctx context.Context, drafts []products.Draft, source string) (int, error) {
	var created int
	err := s.mutate(ctx, func(next *Snapshot) error {
		now := s.now().UTC()
		for _, d := range drafts {
			name := strings.TrimSpace(d.Name)
			if name == "" {
				continue
			}
			category := strings.TrimSpace(d.Category)
			if category == "" {
				category = s.fallback
			}
			if set, _, err := next.Categories.Add(category); err == nil {
				next.Categories = set
			}
			code := strings.TrimSpace(d.Code)
			if code == "" {
				generated, err := s.codes.Unique(next.codeTaken)
				if err != nil {
					return err
				}
				code = generated
			}
			stock := d.Stock
			if stock < 0 {
				stock = 0
			}
			next.Products = append(next.Products, products.Product{
				ID:        s.newID(),
				Name:      name,
				Category:  category,
				Stock:     stock,
				BuyPrice:  d.BuyPrice,
				SellPrice: d.SellPrice,
				Code:      code,
				CreatedAt: now,
			})
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.metrics.AddImportedProducts(source, created)
	s.logger.Info("products imported", slog.String("source", source), slog.Int("count", created))
	return created, nil
}
