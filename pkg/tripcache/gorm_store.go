package tripcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trip-assistant-be/pkg/travel"
)

// TripCacheRecord is the row holding one user's document
type TripCacheRecord struct {
	UserID    string         `gorm:"type:varchar(64);primaryKey" json:"user_id"`
	Document  datatypes.JSON `gorm:"type:jsonb;not null" json:"document"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (TripCacheRecord) TableName() string {
	return "trip_caches"
}

// GormStore keeps documents in the trip_caches table
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the table when it is missing
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&TripCacheRecord{})
}

func (s *GormStore) Load(ctx context.Context, userID string) (*TripCache, error) {
	var rec TripCacheRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w: %w", userID, travel.ErrPersistence, err)
	}
	var c TripCache
	if err := json.Unmarshal(rec.Document, &c); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", userID, ErrCorrupt, err)
	}
	return &c, nil
}

// Save upserts the whole document
func (s *GormStore) Save(ctx context.Context, c *TripCache) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w: %w", c.UserID, travel.ErrPersistence, err)
	}
	rec := TripCacheRecord{UserID: c.UserID, Document: datatypes.JSON(raw), UpdatedAt: c.LastUpdated}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w: %w", c.UserID, travel.ErrPersistence, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&TripCacheRecord{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w: %w", userID, travel.ErrPersistence, err)
	}
	return nil
}

func (s *GormStore) DeleteAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&TripCacheRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete all: %w: %w", travel.ErrPersistence, err)
	}
	return nil
}
