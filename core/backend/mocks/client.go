package mocks

import (
	"context"

	"backend-probe/core/backend"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of backend.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetSession(ctx context.Context) (*backend.Session, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*backend.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetUser(ctx context.Context, token string) (*backend.User, error) {
	args := m.Called(ctx, token)
	if u, ok := args.Get(0).(*backend.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Select(ctx context.Context, table string, q backend.Query) ([]backend.Row, error) {
	args := m.Called(ctx, table, q)
	if rows, ok := args.Get(0).([]backend.Row); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Insert(ctx context.Context, table string, rows ...backend.Row) ([]backend.Row, error) {
	args := m.Called(ctx, table, rows)
	if out, ok := args.Get(0).([]backend.Row); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Update(ctx context.Context, table string, fields backend.Row, column string, value any) (int64, error) {
	args := m.Called(ctx, table, fields, column, value)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Client) Delete(ctx context.Context, table string, column string, value any) (int64, error) {
	args := m.Called(ctx, table, column, value)
	return args.Get(0).(int64), args.Error(1)
}
