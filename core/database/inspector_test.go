package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	err = db.Exec(`CREATE TABLE employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		department TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`).Error
	require.NoError(t, err)
	return db
}

func TestGetTableColumns(t *testing.T) {
	db := setupSQLite(t)

	columns, err := GetTableColumns(db, "employees")
	assert.NoError(t, err)
	assert.Len(t, columns, 4)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "datetime", colMap["created_at"])

	// PRAGMA table_info returns an empty result for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestCompareColumns(t *testing.T) {
	db := setupSQLite(t)

	t.Run("Matched", func(t *testing.T) {
		report, err := CompareColumns(db, "employees", []string{"id", "Name", "department"})
		require.NoError(t, err)
		assert.True(t, report.Matched())
		assert.Equal(t, []string{"created_at"}, report.ExtraColumns)
	})

	t.Run("MissingColumn", func(t *testing.T) {
		report, err := CompareColumns(db, "employees", []string{"id", "salary"})
		require.NoError(t, err)
		assert.False(t, report.Matched())
		assert.Equal(t, []string{"salary"}, report.MissingColumns)
	})

	t.Run("MissingTable", func(t *testing.T) {
		report, err := CompareColumns(db, "contractors", []string{"id"})
		require.NoError(t, err)
		assert.False(t, report.Exists)
		assert.False(t, report.Matched())
	})

	t.Run("NilDB", func(t *testing.T) {
		report, err := CompareColumns(nil, "employees", nil)
		assert.Error(t, err)
		assert.Nil(t, report)
	})
}
