package backend

import "context"

// Row is a single record as returned by the backend.
type Row map[string]any

// Query bounds a Select call.
type Query struct {
	// Columns to return; empty means all columns.
	Columns []string
	// Limit caps the number of rows; zero means no limit.
	Limit int
	// OrderBy is the column to sort on, if any.
	OrderBy    string
	Descending bool
}

// User is the authenticated principal reported by the backend.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Aud   string `json:"aud,omitempty"`
}

// Session is an active auth session. A nil *Session means anonymous access.
type Session struct {
	AccessToken string `json:"-"`
	User        *User  `json:"user"`
}

// Client is the capability set the probes use against the backend.
type Client interface {
	// GetSession returns the current session, or nil when the caller is anonymous.
	GetSession(ctx context.Context) (*Session, error)
	// GetUser resolves the user behind token; an empty token uses the client's own.
	GetUser(ctx context.Context, token string) (*User, error)
	// Select reads rows from table.
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	// Insert writes rows and returns them as stored, generated columns included.
	Insert(ctx context.Context, table string, rows ...Row) ([]Row, error)
	// Update sets fields on rows where column equals value and returns the affected count.
	Update(ctx context.Context, table string, fields Row, column string, value any) (int64, error)
	// Delete removes rows where column equals value and returns the affected count.
	Delete(ctx context.Context, table string, column string, value any) (int64, error)
}
