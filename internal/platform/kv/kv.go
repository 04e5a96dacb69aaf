// Package kv defines the document store used to persist application state and
// provides file and in-memory implementations.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: document not found")

// Store persists whole JSON documents by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Batcher is implemented by stores that can write several keys atomically.
type Batcher interface {
	PutMany(ctx context.Context, docs map[string][]byte) error
}

// PutAll writes docs through PutMany when supported, key by key otherwise.
func PutAll(ctx context.Context, store Store, docs map[string][]byte) error {
	if len(docs) == 0 {
		return nil
	}
	if b, ok := store.(Batcher); ok {
		return b.PutMany(ctx, docs)
	}
	for key, value := range docs {
		if err := store.Put(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
