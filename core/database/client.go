package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"backend-probe/core/backend"

	"gorm.io/gorm"
)

// Client implements backend.Client directly over SQL. It lets the probes run
// against the backend's database (or a local sqlite/mysql copy) when the REST
// gateway is not the thing under test.
type Client struct {
	db       *gorm.DB
	idColumn string
}

var _ backend.Client = (*Client)(nil)

// NewClient wraps db. idColumn names the generated primary key; it is used to
// re-read inserted rows on dialects without RETURNING.
func NewClient(db *gorm.DB, idColumn string) *Client {
	if idColumn == "" {
		idColumn = "id"
	}
	return &Client{db: db, idColumn: idColumn}
}

// GetSession reports the connected database role as the session user. sqlite
// has no notion of users and always reports an anonymous session.
func (c *Client) GetSession(ctx context.Context) (*backend.Session, error) {
	var query string
	switch c.db.Dialector.Name() {
	case DriverPostgres:
		query = "SELECT current_user"
	case DriverMySQL:
		query = "SELECT CURRENT_USER()"
	default:
		if err := c.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	var name string
	if err := c.db.WithContext(ctx).Raw(query).Scan(&name).Error; err != nil {
		return nil, err
	}
	return &backend.Session{User: &backend.User{ID: name, Role: "database"}}, nil
}

// GetUser ignores token: a direct connection has exactly one principal.
func (c *Client) GetUser(ctx context.Context, token string) (*backend.User, error) {
	session, err := c.GetSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	return session.User, nil
}

// Select runs a bounded SELECT.
func (c *Client) Select(ctx context.Context, table string, q backend.Query) ([]backend.Row, error) {
	cols := "*"
	if len(q.Columns) > 0 && !(len(q.Columns) == 1 && q.Columns[0] == "*") {
		quoted := make([]string, len(q.Columns))
		for i, col := range q.Columns {
			quoted[i] = c.quote(strings.TrimSpace(col))
		}
		cols = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + cols + " FROM " + c.quote(table))
	if q.OrderBy != "" {
		sb.WriteString(" ORDER BY " + c.quote(q.OrderBy))
		if q.Descending {
			sb.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", q.Limit))
	}

	var rows []map[string]any
	if err := c.db.WithContext(ctx).Raw(sb.String()).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toRows(rows), nil
}

// Insert writes each row and returns it as stored.
func (c *Client) Insert(ctx context.Context, table string, rows ...backend.Row) ([]backend.Row, error) {
	var out []backend.Row
	for _, row := range rows {
		stored, err := c.insertOne(ctx, table, row)
		if err != nil {
			return out, err
		}
		out = append(out, stored...)
	}
	return out, nil
}

func (c *Client) insertOne(ctx context.Context, table string, row backend.Row) ([]backend.Row, error) {
	keys := sortedKeys(row)
	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = c.quote(k)
		marks[i] = "?"
		args[i] = row[k]
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", c.quote(table), strings.Join(cols, ", "), strings.Join(marks, ", "))

	if c.db.Dialector.Name() != DriverMySQL {
		var stored []map[string]any
		if err := c.db.WithContext(ctx).Raw(stmt+" RETURNING *", args...).Scan(&stored).Error; err != nil {
			return nil, err
		}
		return toRows(stored), nil
	}

	// No RETURNING on MySQL: read the generated id back on the same connection.
	var stored []map[string]any
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(stmt, args...).Error; err != nil {
			return err
		}
		var id int64
		if err := tx.Raw("SELECT LAST_INSERT_ID()").Scan(&id).Error; err != nil {
			return err
		}
		return tx.Raw(fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", c.quote(table), c.quote(c.idColumn)), id).Scan(&stored).Error
	})
	if err != nil {
		return nil, err
	}
	return toRows(stored), nil
}

// Update sets fields where column = value.
func (c *Client) Update(ctx context.Context, table string, fields backend.Row, column string, value any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	keys := sortedKeys(fields)
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets[i] = c.quote(k) + " = ?"
		args = append(args, fields[k])
	}
	args = append(args, value)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", c.quote(table), strings.Join(sets, ", "), c.quote(column))
	res := c.db.WithContext(ctx).Exec(stmt, args...)
	return res.RowsAffected, res.Error
}

// Delete removes rows where column = value.
func (c *Client) Delete(ctx context.Context, table string, column string, value any) (int64, error) {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", c.quote(table), c.quote(column))
	res := c.db.WithContext(ctx).Exec(stmt, value)
	return res.RowsAffected, res.Error
}

func (c *Client) quote(name string) string {
	return quoteIdent(c.db, name)
}

func sortedKeys(row backend.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toRows(in []map[string]any) []backend.Row {
	out := make([]backend.Row, len(in))
	for i, r := range in {
		out[i] = backend.Row(r)
	}
	return out
}
