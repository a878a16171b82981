// Package database handles direct SQL connections and schema inspection.
//
// It wraps GORM to open postgres (the hosted backend's own database), mysql or
// sqlite connections from the application's configuration.
//
// # Client
//
// Client implements backend.Client over SQL so every probe can run without the
// REST gateway in between. Driver errors (*pgconn.PgError, *mysql.MySQLError,
// sqlite messages) are left intact for backend.Classify.
//
// # Schema Inspection
//
// GetTableColumns lists the live columns of a table (information_schema,
// SHOW COLUMNS or PRAGMA table_info depending on the dialect) and
// CompareColumns reports which expected columns are missing.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	client := database.NewClient(db, cfg.Probe.IDColumn)
//	report, err := database.CompareColumns(db, "employees", []string{"id", "department"})
package database
