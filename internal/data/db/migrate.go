package db

import (
	"fmt"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureLearningIndexes(db)
}

// EnsureLearningIndexes adds the partial indexes gorm tags cannot express.
// Both postgres and sqlite accept the WHERE clause.
func EnsureLearningIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollment_user_training_active
		ON enrollment(user_id, training_id)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_enrollment_user_training_active: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_training_completion_user_completed ON training_completion(user_id, completed_at);`).Error; err != nil {
		return fmt.Errorf("create idx_training_completion_user_completed: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_notification_user_unread ON notification(user_id, is_read);`).Error; err != nil {
		return fmt.Errorf("create idx_notification_user_unread: %w", err)
	}
	return nil
}
