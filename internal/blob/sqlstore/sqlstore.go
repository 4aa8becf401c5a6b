// Package sqlstore persists blobs in a kv_blobs table through gorm.
package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/quotely/internal/migration"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one row of kv_blobs.
type Record struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(191)"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Record) TableName() string { return "kv_blobs" }

type Store struct {
	db *gorm.DB
}

// New prepares the schema and returns a store bound to conn.
func New(conn *gorm.DB) (*Store, error) {
	if conn == nil {
		return nil, errors.New("sqlstore database handle is required")
	}
	if err := migration.Run(conn, &Record{}); err != nil {
		return nil, err
	}
	return &Store{db: conn}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where(&Record{Key: key}).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Value, true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	rec := Record{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}
