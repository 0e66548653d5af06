// Package localstore is the console's durable per-browser state, the
// equivalent of the browser's local storage: a namespaced key/value table in
// a local sqlite file. The namespace is the console session id.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Entry struct {
	Namespace string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:64"`
	Value     string
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "console_state" }

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate state db: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the value for key, with ok=false when the key is absent.
func (s *Store) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var e Entry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

// SetAll upserts every pair in one transaction so related keys are never
// observable half-written.
func (s *Store) SetAll(ctx context.Context, namespace string, values map[string]string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range values {
			e := Entry{Namespace: namespace, Key: k, Value: v}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
				UpdateAll: true,
			}).Create(&e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearAll removes every key in the namespace.
func (s *Store) ClearAll(ctx context.Context, namespace string) error {
	return s.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Delete(&Entry{}).Error
}
