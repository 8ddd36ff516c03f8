package seeders

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the first administrator when no active one exists.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("level = ? AND deleted = ?", models.LevelAdministrator, false).
		Count(&count).Error; err != nil {
		return fmt.Errorf("count administrators: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.AdminPassword())
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:              "Administrator",
		Username:          config.AdminUsername(),
		Password:          hash,
		PasswordUpdatedAt: time.Now().Add(-time.Second),
		Level:             models.LevelAdministrator,
	}).Error
}
