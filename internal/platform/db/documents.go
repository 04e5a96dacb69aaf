package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/stockdesk/internal/platform/kv"
)

const (
	createDocuments = `CREATE TABLE IF NOT EXISTS stockdesk_documents (
	doc_key    TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectDocument = `SELECT value FROM stockdesk_documents WHERE doc_key = $1`
	upsertDocument = `INSERT INTO stockdesk_documents (doc_key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (doc_key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

// DocumentStore keeps state documents in a single JSONB table.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore ensures the table exists.
func NewDocumentStore(ctx context.Context, pool *pgxpool.Pool) (*DocumentStore, error) {
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return nil, fmt.Errorf("platform/db: migrate documents: %w", err)
	}
	return &DocumentStore{pool: pool}, nil
}

func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, selectDocument, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("platform/db: get %s: %w", key, err)
	}
	return value, nil
}

func (s *DocumentStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.pool.Exec(ctx, upsertDocument, key, value); err != nil {
		return fmt.Errorf("platform/db: put %s: %w", key, err)
	}
	return nil
}

// PutMany upserts every document in one transaction.
func (s *DocumentStore) PutMany(ctx context.Context, docs map[string][]byte) error {
	return WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for key, value := range docs {
			batch.Queue(upsertDocument, key, value)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("platform/db: batch put: %w", err)
		}
		return nil
	})
}

func (s *DocumentStore) Close() error {
	s.pool.Close()
	return nil
}
