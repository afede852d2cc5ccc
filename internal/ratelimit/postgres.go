package ratelimit

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cvboost/cv-analyzer/internal/models"
)

// postgresStore shares one counter table between instances. Reads and
// writes go through GORM against models.RateLimitEntry.
type postgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Get(identity string) (Entry, bool, error) {
	var record models.RateLimitEntry
	if err := s.db.Where("identity = ?", identity).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("failed to read rate limit entry: %w", err)
	}

	return Entry{Count: record.Count, ResetTime: record.ResetTime}, true, nil
}

func (s *postgresStore) Put(identity string, entry Entry) error {
	record := models.RateLimitEntry{
		Identity:  identity,
		Count:     entry.Count,
		ResetTime: entry.ResetTime,
		UpdatedAt: time.Now(),
	}
	if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save rate limit entry: %w", err)
	}
	return nil
}

func (s *postgresStore) Delete(identity string) error {
	if err := s.db.Where("identity = ?", identity).Delete(&models.RateLimitEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete rate limit entry: %w", err)
	}
	return nil
}

func (s *postgresStore) Sweep(now time.Time) (int, error) {
	result := s.db.Where("reset_time < ?", now).Delete(&models.RateLimitEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sweep rate limit entries: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

func (s *postgresStore) Stats(now time.Time) (Stats, error) {
	var total, active int64
	if err := s.db.Model(&models.RateLimitEntry{}).Count(&total).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count rate limit entries: %w", err)
	}
	if err := s.db.Model(&models.RateLimitEntry{}).Where("reset_time > ?", now).Count(&active).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count active rate limit entries: %w", err)
	}

	return Stats{
		TotalIdentities:  int(total),
		ActiveIdentities: int(active),
		StoreSize:        int(total),
	}, nil
}
