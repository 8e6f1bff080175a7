package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/project-forms/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore keeps session records in a SQL database through GORM.
type GormStore struct {
	db *gorm.DB
}

// Compile-time interface checks.
var _ Store = (*GormStore)(nil)
var _ Purger = (*GormStore)(nil)

// OpenSQLite opens the SQLite database at path and migrates the sessions table.
func OpenSQLite(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return NewGormStore(db)
}

// NewGormStore wraps db and migrates the sessions table.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&user.SessionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Save inserts or replaces a session record.
func (s *GormStore) Save(ctx context.Context, record *user.SessionRecord) error {
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Find returns the live session with id. Expired records are removed on read.
func (s *GormStore) Find(ctx context.Context, id string) (*user.SessionRecord, error) {
	var record user.SessionRecord
	result := s.db.WithContext(ctx).First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, result.Error
	}
	if record.Expired(time.Now()) {
		if err := s.db.WithContext(ctx).Delete(&user.SessionRecord{}, "id = ?", id).Error; err != nil {
			log.Printf("[session] Warning: failed to delete expired session %s: %v", id, err)
		}
		return nil, ErrSessionNotFound
	}
	return &record, nil
}

// Purge deletes every record that expired before now and returns how many were removed.
// Records without an expiry are kept.
func (s *GormStore) Purge(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at > ? AND expires_at < ?", time.Time{}, now).
		Delete(&user.SessionRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Delete removes the session with id.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&user.SessionRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Ping checks the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
