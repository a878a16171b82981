package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "anon", cfg.Supabase.Role)
	assert.Equal(t, 30, cfg.Supabase.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "id", cfg.Probe.IDColumn)
	assert.Equal(t, "created_at", cfg.Probe.TimestampColumn)
	assert.Equal(t, 5, cfg.Probe.VisibleWindow)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://demo.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-from-env")
	t.Setenv("PROBE_TABLE", "employees")
	t.Setenv("PROBE_VISIBLE_WINDOW", "10")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://demo.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "anon-from-env", cfg.Supabase.AnonKey)
	assert.Equal(t, "employees", cfg.Probe.Table)
	assert.Equal(t, 10, cfg.Probe.VisibleWindow)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "SUPABASE_URL=https://file.supabase.co\nSUPABASE_SERVICE_ROLE_KEY=service-from-file\nSUPABASE_ROLE=service_role\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	// Overload writes into the process environment; restore afterwards.
	for _, k := range []string{"SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_ROLE"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	creds := cfg.Supabase.Credentials()
	assert.Equal(t, "https://file.supabase.co", creds.EndpointURL)
	assert.Equal(t, "service-from-file", creds.APIKey)
	assert.EqualValues(t, "service_role", creds.Role)
}
