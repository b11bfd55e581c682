package db

import (
	"toolindex/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Tool{},
		&models.Tag{},
		&models.ToolTag{},
		&models.HealthCheckRecord{},
		&models.BadgeDisplayRecord{},
		&models.ExportAttempt{},
		&models.GitHubNotification{},
	)
}
