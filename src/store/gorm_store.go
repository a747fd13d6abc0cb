package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"positionalerts/src/model"
)

// GormStore keeps documents in the kv_entries table (postgres, or a local
// sqlite file).
type GormStore struct {
	db *gorm.DB
}

var _ Backend = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	var entry model.KVEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(logger.Fields{
			"repo":      "GormStore",
			"op":        "Load",
			"namespace": namespace,
			"key":       key,
		}).WithError(err).Error("Failed to load entry")
		return nil, fmt.Errorf("load %s:%s: %w", namespace, key, err)
	}
	return []byte(entry.Value), nil
}

func (s *GormStore) Save(ctx context.Context, namespace, key string, value []byte) error {
	entry := model.KVEntry{
		Namespace: namespace,
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		logger.WithFields(logger.Fields{
			"repo":      "GormStore",
			"op":        "Save",
			"namespace": namespace,
			"key":       key,
		}).WithError(err).Error("Failed to save entry")
		return fmt.Errorf("save %s:%s: %w", namespace, key, err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
