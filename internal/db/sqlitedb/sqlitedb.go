// Package sqlitedb stores user profiles in SQLite through GORM.
package sqlitedb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/patric-chuzhbe/profiledel/internal/models"
)

var gormOpen = gorm.Open

// ProfileRecord is the persistence model of models.UserProfile.
// Table name: user_profiles
type ProfileRecord struct {
	ID        string    `gorm:"primaryKey;type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ProfileRecord) TableName() string { return "user_profiles" }

// SQLiteDB is a GORM-backed profile store.
type SQLiteDB struct {
	db *gorm.DB
}

// New opens (or creates) the SQLite database at dsn and migrates the schema.
// Use ":memory:" for a throwaway database.
func New(dsn string) (*SQLiteDB, error) {
	db, err := gormOpen(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("in internal/db/sqlitedb/sqlitedb.go/New(): error while `gorm.Open()` calling: %w", err)
	}

	if err := db.AutoMigrate(&ProfileRecord{}); err != nil {
		err = fmt.Errorf("in internal/db/sqlitedb/sqlitedb.go/New(): error while `db.AutoMigrate()` calling: %w", err)
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			err = errors.Join(err, sqlDB.Close())
		}
		return nil, err
	}

	return &SQLiteDB{db: db}, nil
}

func profileToRecord(p models.UserProfile) *ProfileRecord {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return &ProfileRecord{ID: p.ID, CreatedAt: createdAt}
}

// AddProfile inserts profile unless a profile with the same ID exists.
func (s *SQLiteDB) AddProfile(ctx context.Context, profile models.UserProfile) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(profileToRecord(profile)).Error
}

// RemoveProfile deletes the profile row or returns models.ErrProfileNotFound.
func (s *SQLiteDB) RemoveProfile(ctx context.Context, userID string) error {
	result := s.db.WithContext(ctx).Delete(&ProfileRecord{}, "id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrProfileNotFound
	}

	return nil
}

// HasProfile reports whether a profile with userID exists.
func (s *SQLiteDB) HasProfile(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ProfileRecord{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (s *SQLiteDB) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
