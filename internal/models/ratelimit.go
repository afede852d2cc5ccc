package models

import (
	"time"
)

// RateLimitEntry is the persisted form of one identity's quota window,
// used by the Postgres-backed rate-limit store when several instances
// must share a single counter.
type RateLimitEntry struct {
	Identity  string    `gorm:"type:text;primary_key" json:"identity"`
	Count     int       `gorm:"not null;default:0" json:"count"`
	ResetTime time.Time `gorm:"not null" json:"reset_time"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (RateLimitEntry) TableName() string {
	return "rate_limit_entries"
}
