// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sujalbistaa/inkpost/internal/db"
)

// New returns a migrated in-memory SQLite database private to t.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	url := "sqlite://file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := db.Open(url, false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
