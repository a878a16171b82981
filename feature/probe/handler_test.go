package probe

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"backend-probe/core/backend"
	"backend-probe/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, fake *memClient, defaults RunOptions) *fiber.App {
	t.Helper()
	app := fiber.New()
	svc := NewService(fake, testConfig, zap.NewNop())
	NewHandler(svc, defaults).RegisterRoutes(app)
	return app
}

func decode(t *testing.T, body io.Reader, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(out))
}

func TestHandleRun(t *testing.T) {
	app := setupTestApp(t, newMemClient("employees"), RunOptions{})

	resp, err := app.Test(httptest.NewRequest("GET", "/probe?table=employees&roundtrip=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report Report
	decode(t, resp.Body, &report)
	require.Len(t, report.Results, 3)
	assert.Equal(t, StageRoundTrip, report.Results[2].Stage)
	assert.Equal(t, OutcomeSuccess, report.Results[2].Outcome)
}

func TestHandleRun_AllFailed(t *testing.T) {
	fake := newMemClient()
	fake.sessionErr = errors.New("connection refused")
	app := setupTestApp(t, fake, RunOptions{})

	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestHandleAuth(t *testing.T) {
	app := setupTestApp(t, newMemClient(), RunOptions{})

	resp, err := app.Test(httptest.NewRequest("GET", "/probe/auth", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	decode(t, resp.Body, &body)
	assert.Equal(t, "auth_check", body["stage"])
	assert.Equal(t, "success", body["outcome"])
}

func TestHandleTable(t *testing.T) {
	t.Run("MissingTableParam", func(t *testing.T) {
		app := setupTestApp(t, newMemClient(), RunOptions{})
		resp, err := app.Test(httptest.NewRequest("GET", "/probe/table", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("NotFoundIsNotAnOutage", func(t *testing.T) {
		app := setupTestApp(t, newMemClient(), RunOptions{Table: "employees"})
		resp, err := app.Test(httptest.NewRequest("GET", "/probe/table", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		decode(t, resp.Body, &body)
		assert.Equal(t, "not_found", body["outcome"])
		assert.Equal(t, "not_found", body["error_kind"])
	})

	t.Run("SchemaMismatch", func(t *testing.T) {
		fake := newMemClient("employees")
		fake.selectErr = &backend.Error{Code: "42703", Message: "column employees.department does not exist"}
		app := setupTestApp(t, fake, RunOptions{})

		resp, err := app.Test(httptest.NewRequest("GET", "/probe/table?table=employees&columns=id,department", nil))
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)

		var body map[string]any
		decode(t, resp.Body, &body)
		assert.Equal(t, "schema_mismatch", body["outcome"])
		assert.Contains(t, body["message"], "department")
	})
}

func TestHandleRoundTrip(t *testing.T) {
	fake := newMemClient("employees")
	app := setupTestApp(t, fake, RunOptions{})

	req := httptest.NewRequest("POST", "/probe/roundtrip", strings.NewReader(`{"table":"employees","row":{"name":"from-http"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	decode(t, resp.Body, &body)
	assert.Equal(t, "success", body["outcome"])
	assert.Equal(t, "from-http", body["payload"].(map[string]any)["name"])
	assert.Zero(t, fake.count("employees"))
}

func TestHandleRoundTrip_BadBody(t *testing.T) {
	app := setupTestApp(t, newMemClient("employees"), RunOptions{})

	req := httptest.NewRequest("POST", "/probe/roundtrip", strings.NewReader(`{"table":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleStorage_NotConfigured(t *testing.T) {
	app := setupTestApp(t, newMemClient(), RunOptions{})

	resp, err := app.Test(httptest.NewRequest("GET", "/probe/storage", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestFeature_LoadsThroughManager(t *testing.T) {
	app := fiber.New()
	m := loader.NewManager()
	m.Register(NewFeature(NewService(newMemClient(), testConfig, zap.NewNop()), RunOptions{}))
	m.Register(NewFeature(nil, RunOptions{}))

	loaded, err := m.LoadAll(app)
	require.NoError(t, err)
	assert.Equal(t, []string{"probe"}, loaded)

	resp, err := app.Test(httptest.NewRequest("GET", "/probe/auth", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
