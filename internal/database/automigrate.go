package database

import (
	"fmt"

	"gorm.io/gorm"

	"taskboard-api/internal/domain"
)

// AutoMigrate runs GORM auto-migration for all domain models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.Board{},
		&domain.Collaborator{},
		&domain.Card{},
		&domain.Comment{},
		&domain.Attachment{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}
