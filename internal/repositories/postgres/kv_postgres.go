// Package postgres implements the key-value persistence adapter on Postgres
// through GORM. Deployments that already run the document host against a
// database reuse it instead of requiring Redis.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
)

// KVEntry is one persisted blob. Values are JSON documents, stored as jsonb
// so they stay queryable server-side.
type KVEntry struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

type KVStore struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the kv_entries table.
func Open(dsn string) (*KVStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: opening postgres: %v", repositories.ErrStorage, err)
	}
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("%w: migrating kv_entries: %v", repositories.ErrStorage, err)
	}
	return &KVStore{db: db}, nil
}

// NewKVStore wraps an existing GORM handle; the caller owns migration.
func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", repositories.ErrKeyNotFound
		}
		return "", fmt.Errorf("%w: postgres get %s: %v", repositories.ErrStorage, key, err)
	}
	return string(entry.Value), nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	entry := KVEntry{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("%w: postgres set %s: %v", repositories.ErrStorage, key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&KVEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("%w: postgres delete %s: %v", repositories.ErrStorage, key, err)
	}
	return nil
}
