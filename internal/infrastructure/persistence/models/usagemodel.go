package models

import (
	"time"

	"github.com/quotakeeper/quotakeeper/internal/shared/constants"
)

// UsageModel is the persistence model for usage windows. The key column is
// the primary key, which gives the one-record-per-key guarantee.
type UsageModel struct {
	Key        string    `gorm:"column:usage_key;primaryKey;size:191"`
	UsageCount int64     `gorm:"column:usage_count;not null;default:0"`
	ExpiresAt  time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for GORM
func (UsageModel) TableName() string {
	return constants.TableUsages
}
