package migration

import (
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models the auto-migrate strategy creates.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.UsageModel{},
	}
}
