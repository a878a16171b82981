package database

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one live column.
type ColumnInfo struct {
	Field string
	Type  string
}

// GetTableColumns retrieves the column definitions for a given table. A table
// that does not exist yields no columns and no error.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo

	switch db.Dialector.Name() {
	case DriverSQLite:
		type sqliteColumn struct {
			Cid  int
			Name string
			Type string
		}
		var rows []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", strings.ReplaceAll(tableName, "'", "''"))).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range rows {
			columns = append(columns, ColumnInfo{Field: col.Name, Type: col.Type})
		}

	case DriverPostgres:
		schema, table := "public", tableName
		if i := strings.Index(tableName, "."); i >= 0 {
			schema, table = tableName[:i], tableName[i+1:]
		}
		err := db.Raw(
			"SELECT column_name AS field, data_type AS type FROM information_schema.columns WHERE table_schema = ? AND table_name = ? ORDER BY ordinal_position",
			schema, table,
		).Scan(&columns).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}

	default:
		// MySQL: SHOW COLUMNS returns Field, Type, Null, Key, Default, Extra
		if err := db.Raw("SHOW COLUMNS FROM " + quoteIdent(db, tableName)).Scan(&columns).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
	}

	for i := range columns {
		columns[i].Field = strings.ToLower(columns[i].Field)
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

// TableReport is the result of comparing expected columns with a live table.
type TableReport struct {
	Table          string   `json:"table"`
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns"`
	ExtraColumns   []string `json:"extra_columns"`
}

// Matched reports whether the table exists with every expected column.
func (r TableReport) Matched() bool {
	return r.Exists && len(r.MissingColumns) == 0
}

// CompareColumns inspects tableName and reports which expected columns are absent.
func CompareColumns(db *gorm.DB, tableName string, expected []string) (*TableReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	actual, err := GetTableColumns(db, tableName)
	if err != nil {
		return nil, err
	}

	report := &TableReport{
		Table:          tableName,
		Exists:         len(actual) > 0,
		MissingColumns: []string{},
		ExtraColumns:   []string{},
	}

	actualSet := make(map[string]bool, len(actual))
	for _, col := range actual {
		actualSet[col.Field] = true
	}

	expectedSet := make(map[string]bool, len(expected))
	for _, col := range expected {
		col = strings.ToLower(strings.TrimSpace(col))
		if col == "" || col == "*" {
			continue
		}
		expectedSet[col] = true
		if !actualSet[col] {
			report.MissingColumns = append(report.MissingColumns, col)
		}
	}

	for _, col := range actual {
		if !expectedSet[col.Field] {
			report.ExtraColumns = append(report.ExtraColumns, col.Field)
		}
	}

	sort.Strings(report.MissingColumns)
	sort.Strings(report.ExtraColumns)
	return report, nil
}

func quoteIdent(db *gorm.DB, name string) string {
	var b strings.Builder
	db.Dialector.QuoteTo(&b, name)
	return b.String()
}
