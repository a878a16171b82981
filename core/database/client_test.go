package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"backend-probe/core/backend"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysqldriver.New(mysqldriver.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestClient_SQLiteRoundTrip(t *testing.T) {
	db := setupSQLite(t)
	client := NewClient(db, "id")
	ctx := context.Background()

	inserted, err := client.Insert(ctx, "employees", backend.Row{"name": "ann", "department": "qa"})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	id := inserted[0]["id"]
	assert.EqualValues(t, 1, id)
	assert.Equal(t, "qa", inserted[0]["department"])

	rows, err := client.Select(ctx, "employees", backend.Query{
		Columns:    []string{"id", "name"},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      5,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ann", rows[0]["name"])
	assert.NotContains(t, rows[0], "department")

	n, err := client.Update(ctx, "employees", backend.Row{"department": "ops"}, "id", id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = client.Delete(ctx, "employees", "id", id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err = client.Select(ctx, "employees", backend.Query{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClient_SQLiteErrorsClassify(t *testing.T) {
	db := setupSQLite(t)
	client := NewClient(db, "")
	ctx := context.Background()

	_, err := client.Select(ctx, "contractors", backend.Query{Limit: 1})
	assert.Equal(t, backend.KindNotFound, backend.KindOf(err))

	_, err = client.Select(ctx, "employees", backend.Query{Columns: []string{"salary"}, Limit: 1})
	classified := backend.Classify(err)
	assert.Equal(t, backend.KindSchemaMismatch, classified.Kind)
	assert.Equal(t, "salary", classified.Column)
}

func TestClient_SQLiteSessionIsAnonymous(t *testing.T) {
	db := setupSQLite(t)
	session, err := NewClient(db, "id").GetSession(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestClient_MySQLSession(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT CURRENT_USER\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"CURRENT_USER()"}).AddRow("probe@%"))

	session, err := NewClient(db, "id").GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "probe@%", session.User.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_MySQLMissingTable(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `employees` LIMIT 1").
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'app.employees' doesn't exist"})

	_, err := NewClient(db, "id").Select(context.Background(), "employees", backend.Query{Columns: []string{"id"}, Limit: 1})
	require.Error(t, err)

	var myErr *mysql.MySQLError
	assert.True(t, errors.As(err, &myErr))
	assert.Equal(t, backend.KindNotFound, backend.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_MySQLDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `employees` WHERE `id` = ?")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := NewClient(db, "id").Delete(context.Background(), "employees", "id", 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
