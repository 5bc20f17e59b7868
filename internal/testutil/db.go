package testutil

import (
	"testing"

	"design-studio/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// OpenDB открывает чистую in-memory SQLite с применёнными миграциями.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
