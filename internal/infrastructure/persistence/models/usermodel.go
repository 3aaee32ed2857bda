package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quotakeeper/quotakeeper/internal/shared/constants"
)

// UserModel represents the database persistence model for users.
// Only the columns this service reads or writes are mapped.
type UserModel struct {
	ID             uint           `gorm:"primarykey"`
	ExternalID     int64          `gorm:"column:external_id;uniqueIndex;not null"`
	Username       string         `gorm:"size:100"`
	Name           string         `gorm:"size:255"`
	Plan           *string        `gorm:"size:32"`
	SubscriptionID *string        `gorm:"column:subscription_id;size:255"`
	MidtransID     *string        `gorm:"column:midtrans_id;size:255"`
	Settings       datatypes.JSON `gorm:"column:settings"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
