// Package sqlite stores state documents in a local SQLite database through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/odyssey-erp/stockdesk/internal/platform/kv"
)

// Document is one persisted state collection.
type Document struct {
	Key       string `gorm:"column:doc_key;primaryKey"`
	Value     []byte `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (Document) TableName() string { return "documents" }

// DocumentStore implements kv.Store on a gorm handle.
type DocumentStore struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*DocumentStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("platform/sqlite: open: %w", err)
	}
	return NewDocumentStore(db)
}

// NewDocumentStore migrates the documents table on db.
func NewDocumentStore(db *gorm.DB) (*DocumentStore, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("platform/sqlite: migrate: %w", err)
	}
	return &DocumentStore{db: db}, nil
}

func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc Document
	err := s.db.WithContext(ctx).Where("doc_key = ?", key).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("platform/sqlite: get %s: %w", key, err)
	}
	return doc.Value, nil
}

func (s *DocumentStore) Put(ctx context.Context, key string, value []byte) error {
	if err := upsert(s.db.WithContext(ctx), key, value); err != nil {
		return fmt.Errorf("platform/sqlite: put %s: %w", key, err)
	}
	return nil
}

// PutMany upserts every document in one transaction.
func (s *DocumentStore) PutMany(ctx context.Context, docs map[string][]byte) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range docs {
			if err := upsert(tx, key, value); err != nil {
				return fmt.Errorf("platform/sqlite: put %s: %w", key, err)
			}
		}
		return nil
	})
}

func (s *DocumentStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(db *gorm.DB, key string, value []byte) error {
	doc := Document{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
}
