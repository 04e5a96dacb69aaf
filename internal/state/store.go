// Package state owns the four persisted collections and exposes every
// mutation the application performs on them.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/observability"
	"github.com/odyssey-erp/stockdesk/internal/platform/kv"
	"github.com/odyssey-erp/stockdesk/internal/shared"
)

// Document keys in the backend.
const (
	KeySettings     = "settings"
	KeyCategories   = "categories"
	KeyProducts     = "products"
	KeyTransactions = "transactions"
)

var documentKeys = []string{KeySettings, KeyCategories, KeyProducts, KeyTransactions}

var (
	// ErrProductNotFound is returned when no product has the given id or code.
	ErrProductNotFound = shared.NewError(shared.ErrNotFound, "state: product not found")
	// ErrCategoryNotFound is returned when deleting a category that is not in the set.
	ErrCategoryNotFound = shared.NewError(shared.ErrNotFound, "state: category not found")
	// ErrUnknownCategory rejects a product whose category is not in the set.
	ErrUnknownCategory = shared.NewError(shared.ErrValidation, "state: category does not exist")
)

// Options tunes a Store. Zero values select production defaults.
type Options struct {
	Logger  *slog.Logger
	Metrics *observability.Metrics
	Now     func() time.Time
	NewID   func() string
	Codes   *products.CodeGenerator
	// FallbackCategory is assigned to imported rows without a category.
	FallbackCategory string
}

// Store is the single owner of application state. Every mutation builds the
// next snapshot from a copy, persists the documents that changed and only then
// publishes it, so a failed write leaves the previous state in place.
type Store struct {
	mu           sync.Mutex
	backend      kv.Store
	snap         Snapshot
	fingerprints map[string]uint64

	logger   *slog.Logger
	metrics  *observability.Metrics
	now      func() time.Time
	newID    func() string
	codes    *products.CodeGenerator
	fallback string
}

// Open loads the state documents from backend. Missing documents start from
// their defaults.
func Open(ctx context.Context, backend kv.Store, opts Options) (*Store, error) {
	s := &Store{
		backend:  backend,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		now:      opts.Now,
		newID:    opts.NewID,
		codes:    opts.Codes,
		fallback: opts.FallbackCategory,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.codes == nil {
		s.codes = products.NewCodeGenerator(nil)
	}
	if s.fallback == "" {
		s.fallback = defaultFallback
	}

	snap, err := load(ctx, backend)
	if err != nil {
		return nil, err
	}
	docs, err := encodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	s.snap = snap
	s.fingerprints = make(map[string]uint64, len(docs))
	for key, data := range docs {
		s.fingerprints[key] = xxhash.Sum64(data)
	}
	return s, nil
}

func load(ctx context.Context, backend kv.Store) (Snapshot, error) {
	snap := DefaultSnapshot()
	targets := map[string]any{
		KeySettings:     &snap.Settings,
		KeyCategories:   &snap.Categories,
		KeyProducts:     &snap.Products,
		KeyTransactions: &snap.Transactions,
	}
	fresh := DefaultSnapshot()

	g, gctx := errgroup.WithContext(ctx)
	for key, target := range targets {
		g.Go(func() error {
			data, err := backend.Get(gctx, key)
			if errors.Is(err, kv.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("state: load %s: %w", key, err)
			}
			if err := json.Unmarshal(data, target); err != nil {
				return fmt.Errorf("state: decode %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	// A stored null decodes to nil; treat it like a missing document.
	if snap.Products == nil {
		snap.Products = fresh.Products
	}
	if snap.Transactions == nil {
		snap.Transactions = fresh.Transactions
	}
	if snap.Categories == nil {
		snap.Categories = fresh.Categories
	}
	return snap, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// mutate applies fn to a copy of the state and commits it once persisted.
func (s *Store) mutate(ctx context.Context, fn func(next *Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	fingerprints, err := s.persist(ctx, next)
	if err != nil {
		return err
	}
	s.snap = next
	s.fingerprints = fingerprints
	return nil
}

// persist writes the documents whose fingerprint changed and returns the new
// fingerprint set. The store's own fingerprints are left untouched.
func (s *Store) persist(ctx context.Context, snap Snapshot) (map[string]uint64, error) {
	docs, err := encodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	fingerprints := make(map[string]uint64, len(docs))
	changed := make(map[string][]byte)
	for key, data := range docs {
		sum := xxhash.Sum64(data)
		fingerprints[key] = sum
		if prev, ok := s.fingerprints[key]; !ok || prev != sum {
			changed[key] = data
		}
	}
	if len(changed) == 0 {
		return fingerprints, nil
	}

	start := time.Now()
	if err := kv.PutAll(ctx, s.backend, changed); err != nil {
		s.logger.Error("persist state", slog.Int("documents", len(changed)), slog.Any("error", err))
		return nil, fmt.Errorf("state: persist: %w", err)
	}
	s.metrics.ObservePersist(time.Since(start), len(changed))
	s.logger.Debug("state persisted", slog.Int("documents", len(changed)))
	return fingerprints, nil
}

func encodeSnapshot(snap Snapshot) (map[string][]byte, error) {
	values := map[string]any{
		KeySettings:     snap.Settings,
		KeyCategories:   snap.Categories,
		KeyProducts:     snap.Products,
		KeyTransactions: snap.Transactions,
	}
	docs := make(map[string][]byte, len(documentKeys))
	for _, key := range documentKeys {
		data, err := json.Marshal(values[key])
		if err != nil {
			return nil, fmt.Errorf("state: encode %s: %w", key, err)
		}
		docs[key] = data
	}
	return docs, nil
}
