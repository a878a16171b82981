package probe

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"backend-probe/core/backend"
	"backend-probe/core/utils"
)

// memClient is an in-memory backend.Client that counts every call.
type memClient struct {
	mu     sync.Mutex
	tables map[string][]backend.Row
	nextID int
	clock  time.Time
	calls  int

	session    *backend.Session
	sessionErr error
	selectErr  error
	insertErr  error
	deleteErr  error
}

func newMemClient(tables ...string) *memClient {
	m := &memClient{tables: map[string][]backend.Row{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	for _, t := range tables {
		m.tables[t] = nil
	}
	return m
}

func (m *memClient) count(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

func (m *memClient) GetSession(ctx context.Context) (*backend.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.session, m.sessionErr
}

func (m *memClient) GetUser(ctx context.Context, token string) (*backend.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.session == nil {
		return nil, &backend.Error{Kind: backend.KindPermission, Code: "no_authorization"}
	}
	return m.session.User, nil
}

func (m *memClient) Select(ctx context.Context, table string, q backend.Query) ([]backend.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	rows, ok := m.tables[table]
	if !ok {
		return nil, relationMissing(table)
	}

	out := make([]backend.Row, len(rows))
	copy(out, rows)
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := utils.ToString(out[i][q.OrderBy]), utils.ToString(out[j][q.OrderBy])
			if q.Descending {
				return a > b
			}
			return a < b
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memClient) Insert(ctx context.Context, table string, rows ...backend.Row) ([]backend.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	if _, ok := m.tables[table]; !ok {
		return nil, relationMissing(table)
	}

	var out []backend.Row
	for _, r := range rows {
		m.nextID++
		m.clock = m.clock.Add(time.Second)
		stored := backend.Row{"id": m.nextID, "created_at": m.clock.Format(time.RFC3339)}
		for k, v := range r {
			stored[k] = v
		}
		m.tables[table] = append(m.tables[table], stored)
		out = append(out, stored)
	}
	return out, nil
}

func (m *memClient) Update(ctx context.Context, table string, fields backend.Row, column string, value any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	var n int64
	for _, r := range m.tables[table] {
		if utils.ToString(r[column]) == utils.ToString(value) {
			for k, v := range fields {
				r[k] = v
			}
			n++
		}
	}
	return n, nil
}

func (m *memClient) Delete(ctx context.Context, table string, column string, value any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	kept := m.tables[table][:0]
	var n int64
	for _, r := range m.tables[table] {
		if utils.ToString(r[column]) == utils.ToString(value) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.tables[table] = kept
	return n, nil
}

func relationMissing(table string) error {
	return &backend.Error{Code: "42P01", Message: fmt.Sprintf("relation \"public.%s\" does not exist", table), Status: 404}
}
