package db

import (
	"fmt" // Error wrapping

	"employee_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate performs automatic migration for the users and employees tables
func Migrate(db *gorm.DB) error {
	// AutoMigrate creates missing tables, columns and unique indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Employee{}); err != nil {
		logrus.WithError(err).Error("migration failed")
		return err
	}
	if err := backfillSearchKeys(db); err != nil {
		logrus.WithError(err).Error("search key backfill failed")
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// backfillSearchKeys folds name and email for rows created before the search columns existed
func backfillSearchKeys(db *gorm.DB) error {
	var pending []domain.Employee
	res := db.Where("(name_lower IS NULL OR name_lower = '') AND name <> ''").
		FindInBatches(&pending, 200, func(tx *gorm.DB, _ int) error {
			for i := range pending {
				e := &pending[i]
				e.FoldSearchKeys()
				if err := tx.Model(&domain.Employee{}).Where("id = ?", e.ID).
					UpdateColumns(map[string]any{"name_lower": e.NameLower, "email_lower": e.EmailLower}).Error; err != nil {
					return err
				}
			}
			return nil
		})
	if res.Error != nil {
		return fmt.Errorf("backfill search keys: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logrus.WithField("rows", res.RowsAffected).Info("search keys backfilled") // Log backfilled rows
	}
	return nil
}
