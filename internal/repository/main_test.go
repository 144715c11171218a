package repository

import (
	"path/filepath"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB opens a migrated sqlite database in the test's temp dir.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{
		DBDriver:       "sqlite",
		DBPath:         filepath.Join(t.TempDir(), "repo.sqlite"),
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
		DBSchemaMode:   database.SchemaModeAuto,
	})
	require.NoError(t, err)
	return db
}
