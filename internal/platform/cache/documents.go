package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/stockdesk/internal/platform/kv"
)

// DefaultPrefix namespaces document keys.
const DefaultPrefix = "stockdesk"

// DocumentStore keeps state documents as plain Redis strings under <prefix>:<key>.
type DocumentStore struct {
	client *redis.Client
	prefix string
}

// NewDocumentStore wraps client. An empty prefix uses DefaultPrefix.
func NewDocumentStore(client *redis.Client, prefix string) *DocumentStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &DocumentStore{client: client, prefix: prefix}
}

func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("platform/cache: get %s: %w", key, err)
	}
	return data, nil
}

func (s *DocumentStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("platform/cache: set %s: %w", key, err)
	}
	return nil
}

// PutMany writes every document inside one MULTI/EXEC block.
func (s *DocumentStore) PutMany(ctx context.Context, docs map[string][]byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range docs {
			pipe.Set(ctx, s.key(key), value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("platform/cache: batch set: %w", err)
	}
	return nil
}

func (s *DocumentStore) Close() error {
	return s.client.Close()
}

func (s *DocumentStore) key(key string) string {
	return s.prefix + ":" + key
}
