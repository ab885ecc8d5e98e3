package db

import "time"

// CacheEntry maps quill.cache_entries.
type CacheEntry struct {
	CacheKey  string     `gorm:"column:cache_key;type:text;primaryKey"`
	Value     []byte     `gorm:"column:value;type:bytea;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at;type:timestamptz"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (CacheEntry) TableName() string { return "quill.cache_entries" }

func autoMigrateModels() []any {
	return []any{
		&CacheEntry{},
	}
}
