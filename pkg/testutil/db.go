// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"testing"

	"go-signshop-api/internal/repository"
	"go-signshop-api/pkg/database"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Connect(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      dsn,
		Logger:   zerolog.Nop(),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewSeededDB is NewDB plus the demo catalog.
func NewSeededDB(t testing.TB) (*gorm.DB, *repository.DemoCatalog) {
	t.Helper()

	db := NewDB(t)
	catalog, err := repository.SeedDemoData(db)
	require.NoError(t, err)
	return db, catalog
}
