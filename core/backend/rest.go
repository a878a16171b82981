package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"backend-probe/core/utils"
)

// API path prefixes of the hosted backend.
const (
	RestPath    = "/rest/v1"
	AuthPath    = "/auth/v1"
	StoragePath = "/storage/v1"
)

// RESTClient implements Client over the PostgREST and GoTrue HTTP APIs.
// It holds no session state beyond an optional user access token.
type RESTClient struct {
	baseURL     string
	apiKey      string
	accessToken string
	http        *http.Client
}

// Option customizes a RESTClient.
type Option func(*RESTClient)

// WithAccessToken authenticates requests as a user instead of as the API key's role.
func WithAccessToken(token string) Option {
	return func(c *RESTClient) { c.accessToken = strings.TrimSpace(token) }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *RESTClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RESTClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewRESTClient validates creds and builds a client. No request is issued.
func NewRESTClient(creds Credentials, opts ...Option) (*RESTClient, error) {
	if err := CheckCredentials(creds); err != nil {
		return nil, err
	}

	u, err := url.Parse(creds.EndpointURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &ConfigError{Key: "SUPABASE_URL", Reason: fmt.Sprintf("is not an absolute URL: %q", creds.EndpointURL)}
	}

	c := &RESTClient{
		baseURL: strings.TrimRight(creds.EndpointURL, "/"),
		apiKey:  creds.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetSession confirms the auth service answers and returns the session for the
// configured access token, or nil when the client is anonymous.
func (c *RESTClient) GetSession(ctx context.Context) (*Session, error) {
	if c.accessToken == "" {
		if err := c.do(ctx, http.MethodGet, AuthPath+"/health", nil, nil, "", c.apiKey, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}

	user, err := c.GetUser(ctx, c.accessToken)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: c.accessToken, User: user}, nil
}

// GetUser calls GET /auth/v1/user with token as bearer.
func (c *RESTClient) GetUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		token = c.accessToken
	}
	if token == "" {
		return nil, &Error{Kind: KindPermission, Code: "no_authorization", Message: "no access token to resolve a user from"}
	}

	var user User
	if err := c.do(ctx, http.MethodGet, AuthPath+"/user", nil, nil, "", token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Select issues GET /rest/v1/{table}?select=...&limit=...&order=...
func (c *RESTClient) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	params := url.Values{}
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	} else {
		params.Set("select", "*")
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}

	var rows []Row
	if err := c.do(ctx, http.MethodGet, c.tablePath(table), params, nil, "", "", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert issues POST /rest/v1/{table} and returns the stored representation.
func (c *RESTClient) Insert(ctx context.Context, table string, rows ...Row) ([]Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	var out []Row
	if err := c.do(ctx, http.MethodPost, c.tablePath(table), nil, rows, "return=representation", "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update issues PATCH /rest/v1/{table}?{column}=eq.{value}.
func (c *RESTClient) Update(ctx context.Context, table string, fields Row, column string, value any) (int64, error) {
	var out []Row
	if err := c.do(ctx, http.MethodPatch, c.tablePath(table), eq(column, value), fields, "return=representation", "", &out); err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

// Delete issues DELETE /rest/v1/{table}?{column}=eq.{value}.
func (c *RESTClient) Delete(ctx context.Context, table string, column string, value any) (int64, error) {
	var out []Row
	if err := c.do(ctx, http.MethodDelete, c.tablePath(table), eq(column, value), nil, "return=representation", "", &out); err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

func (c *RESTClient) tablePath(table string) string {
	return RestPath + "/" + url.PathEscape(table)
}

func eq(column string, value any) url.Values {
	return url.Values{column: []string{"eq." + utils.ToString(value)}}
}

// do performs one request. bearer defaults to the access token, then the API key.
func (c *RESTClient) do(ctx context.Context, method, path string, params url.Values, body any, prefer, bearer string, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if bearer == "" {
		bearer = c.accessToken
	}
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindConnectivity, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindConnectivity, Message: "failed to read response: " + err.Error(), Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// apiError covers both the PostgREST and the GoTrue error bodies.
type apiError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Details          any    `json:"details"`
	Hint             any    `json:"hint"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func decodeError(status int, data []byte) *Error {
	e := &Error{Status: status}

	var body apiError
	if err := json.Unmarshal(data, &body); err != nil {
		e.Message = strings.TrimSpace(string(data))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return Classify(e)
	}

	e.Code = body.ErrorCode
	if e.Code == "" {
		e.Code = stringOf(body.Code)
	}
	for _, m := range []string{body.Message, body.Msg, body.ErrorDescription, body.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	e.Details = stringOf(body.Details)
	e.Hint = stringOf(body.Hint)

	return Classify(e)
}

func stringOf(v any) string {
	if v == nil {
		return ""
	}
	return utils.ToString(v)
}
