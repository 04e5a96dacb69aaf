package state

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/odyssey-erp/stockdesk/internal/inventory"
	"github.com/odyssey-erp/stockdesk/internal/observability"
	"github.com/odyssey-erp/stockdesk/internal/shared"
)

// ApplyStockOperation moves stock of the referenced product and records the
// transaction. Product update and transaction append are committed together.
func (s *Store) ApplyStockOperation(ctx context.Context, ref string, direction inventory.Direction, amount int) (inventory.Result, error) {
	var result inventory.Result
	err := s.mutate(ctx, func(next *Snapshot) error {
		idx := next.productIndex(strings.TrimSpace(ref))
		if idx < 0 {
			return ErrProductNotFound
		}
		res, err := inventory.ApplyStockOperation(next.Products[idx], inventory.Operation{
			Direction: direction,
			Amount:    amount,
			TxID:      s.newID(),
			At:        s.now().UTC(),
		})
		if err != nil {
			return err
		}
		next.Products[idx] = res.Product
		next.Transactions = append([]inventory.Transaction{res.Transaction}, next.Transactions...)
		result = res
		return nil
	})

	switch {
	case err == nil:
		s.metrics.ObserveStockOperation(string(direction), observability.OutcomeApplied)
		s.logger.Info("stock operation applied",
			slog.String("product_id", result.Product.ID),
			slog.String("direction", string(direction)),
			slog.Int("amount", amount),
			slog.Int("stock", result.Product.Stock))
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrDomainRule), errors.Is(err, shared.ErrNotFound):
		s.metrics.ObserveStockOperation(string(direction), observability.OutcomeRejected)
	default:
		s.metrics.ObserveStockOperation(string(direction), observability.OutcomeFailed)
	}
	if err != nil {
		return inventory.Result{}, err
	}
	return result, nil
}

// Transactions returns up to limit transactions, newest first. A limit of
// zero or less returns all of them.
func (s *Store) Transactions(limit int) []inventory.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.snap.Transactions)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]inventory.Transaction, n)
	copy(out, s.snap.Transactions[:n])
	return out
}

// ClearTransactions empties the transaction log and returns how many entries
// were dropped. Stock levels are not touched.
func (s *Store) ClearTransactions(ctx context.Context) (int, error) {
	var cleared int
	err := s.mutate(ctx, func(next *Snapshot) error {
		cleared = len(next.Transactions)
		next.Transactions = []inventory.Transaction{}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Warn("transactions cleared", slog.Int("count", cleared))
	return cleared, nil
}

// Reset discards every product and transaction and restores default settings
// and categories.
func (s *Store) Reset(ctx context.Context) error {
	err := s.mutate(ctx, func(next *Snapshot) error {
		*next = DefaultSnapshot()
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Warn("state reset to defaults")
	return nil
}

// Totals recomputes the dashboard figures from the current state.
func (s *Store) Totals() inventory.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return inventory.ComputeTotals(s.snap.Products, s.snap.Transactions)
}
