package service

import (
	"path/filepath"
	"testing"

	"employee_system/internal/domain"
	"employee_system/internal/repository"
	"employee_system/internal/storage"
	"employee_system/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
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

func newTestCache(t *testing.T) (*utils.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return utils.NewCache(rdb), mr
}

type employeeFixture struct {
	svc    *EmployeeService
	repo   *repository.EmployeeRepository
	images *storage.LocalStore
}

func newEmployeeFixture(t *testing.T, cache *utils.Cache) *employeeFixture {
	t.Helper()
	images, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	repo := repository.NewEmployeeRepository(newTestDB(t))
	return &employeeFixture{
		svc:    NewEmployeeService(repo, images, cache),
		repo:   repo,
		images: images,
	}
}
