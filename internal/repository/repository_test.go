package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"employee_system/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Employee{}))
	return db
}

func seedEmployees(t *testing.T, repo *EmployeeRepository, employees ...*domain.Employee) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, e := range employees {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		}
		if e.Mobile == "" {
			e.Mobile = "555"
		}
		if e.Gender == "" {
			e.Gender = domain.GenderMale
		}
		if e.Designation == "" {
			e.Designation = domain.DesignationHR
		}
		require.NoError(t, repo.Insert(context.Background(), e))
	}
}
